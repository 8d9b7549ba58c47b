package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/a3tai/trade-doc-match/internal/pdf"
	"github.com/a3tai/trade-doc-match/internal/tradedoc"
)

const uploadField = "files"

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.readDocuments(w, r, 2)
	if !ok {
		return
	}

	result, err := s.service.ExtractDocuments(docs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.readDocuments(w, r, 2)
	if !ok {
		return
	}

	result, err := s.service.MergeDocuments(docs[0], docs[1])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.readDocuments(w, r, 2)
	if !ok {
		return
	}

	result, err := s.service.ReconcileDocuments(docs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.readDocuments(w, r, 1)
	if !ok {
		return
	}

	result, err := s.service.ValidateDocument(docs[0])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.TableRecords()
	if err != nil {
		s.writeTableError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="reconciliation.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		s.logger.Error("http.table_write", "error", err)
	}
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.TableWorkbook()
	if err != nil {
		s.writeTableError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="reconciliation.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("http.workbook_write", "error", err)
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Info())
}

// readDocuments parses the multipart upload and enforces the document
// count and the .pdf extension. On failure it writes the error response
// and returns ok=false.
func (s *Server) readDocuments(w http.ResponseWriter, r *http.Request, want int) ([]tradedoc.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	if err := r.ParseMultipartForm(s.maxBody); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		s.writeError(w, http.StatusBadRequest, "invalid multipart request")
		return nil, false
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) != want {
		s.writeError(w, http.StatusBadRequest, countMessage(want))
		return nil, false
	}

	docs := make([]tradedoc.Document, 0, len(headers))
	for _, fh := range headers {
		name := filepath.Base(fh.Filename)
		if !pdf.HasPDFExtension(name) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("%s is not a PDF file", name))
			return nil, false
		}

		data, err := readUpload(fh)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", name))
			return nil, false
		}
		docs = append(docs, tradedoc.Document{Name: name, Data: data})
	}
	return docs, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func countMessage(want int) string {
	if want == 1 {
		return "exactly one PDF file is required"
	}
	return "exactly two PDF files are required"
}

// writeServiceError maps pipeline errors onto HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case pdf.IsEmptyTextError(err):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case pdf.IsOpenError(err), pdf.IsTooLargeError(err):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("http.service_error", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeTableError distinguishes a table that has not been produced yet
// from a real read failure
func (s *Server) writeTableError(w http.ResponseWriter, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		s.writeError(w, http.StatusNotFound, "no reconciliation table has been produced yet")
		return
	}
	s.logger.Error("http.table_error", "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Error("http.encode", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
