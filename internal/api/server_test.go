package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/trade-doc-match/internal/pdf"
	"github.com/a3tai/trade-doc-match/internal/pdf/pdftest"
	"github.com/a3tai/trade-doc-match/internal/reconcile"
	"github.com/a3tai/trade-doc-match/internal/tradedoc"
)

const testMaxFileSize = 10 * 1024 * 1024

type upload struct {
	name string
	data []byte
}

func newTestServer(t *testing.T, maxFileSize int64) *Server {
	t.Helper()

	tablePath := filepath.Join(t.TempDir(), "reconciliation.csv")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := tradedoc.NewService("trade-doc-match-test", "0.0.0-test", maxFileSize, nil, tablePath, logger)
	return NewServer("127.0.0.1:0", maxFileSize, service, logger)
}

func proposalUpload() upload {
	return upload{
		name: "proposal.pdf",
		data: pdftest.Doc(
			"Contract No: ABC-123",
			"Date: 2024-03-15",
			"SELLER",
			"AGRO EXIM PVT LTD",
			"CONSIGNEE",
			"NORDIC TEXTILES AB",
			"NOTIFY PARTY",
			"Same as consignee",
		),
	}
}

func agreementUpload() upload {
	return upload{
		name: "agreement.pdf",
		data: pdftest.Doc(
			"Contract No: ABC-123",
			"Date: 2024-03-16",
			"SELLER",
			"OCEANIC FIBRES PVT LTD",
			"CONSIGNEE",
			"NORDIC TEXTILES AB",
			"NOTIFY PARTY",
			"Same as consignee",
		),
	}
}

func multipartBody(t *testing.T, uploads ...upload) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(uploadField, u.name)
		require.NoError(t, err)
		_, err = part.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func postFiles(t *testing.T, s *Server, path string, uploads ...upload) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, uploads...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestExtractEndpoint(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/extract", proposalUpload(), agreementUpload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result tradedoc.ExtractResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Documents, 2)

	proposal := result.Documents["proposal.pdf"]
	require.NotNil(t, proposal)
	require.NotNil(t, proposal.Header.ContractNo)
	assert.Equal(t, "ABC-123", *proposal.Header.ContractNo)

	agreement := result.Documents["agreement.pdf"]
	require.NotNil(t, agreement)
	require.NotNil(t, agreement.Parties.Seller)
	assert.Equal(t, "OCEANIC FIBRES PVT LTD", *agreement.Parties.Seller)
}

func TestExtractEndpointWrongCount(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/extract", proposalUpload())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "exactly two PDF files are required", decodeError(t, rec))
}

func TestExtractEndpointRejectsNonPDF(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/extract",
		proposalUpload(),
		upload{name: "notes.txt", data: []byte("plain text")},
	)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "notes.txt is not a PDF file", decodeError(t, rec))
}

func TestExtractEndpointEmptyText(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/extract",
		proposalUpload(),
		upload{name: "blank.pdf", data: pdftest.EmptyDoc()},
	)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec), "blank.pdf")
}

func TestExtractEndpointUnreadable(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/extract",
		proposalUpload(),
		upload{name: "broken.pdf", data: []byte("not a pdf at all")},
	)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "broken.pdf")
}

func TestMergeEndpoint(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/merge", proposalUpload(), agreementUpload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result tradedoc.MergeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	require.NotNil(t, result.Merged)
	require.NotNil(t, result.Merged.Header.ContractNo)
	assert.Equal(t, "ABC-123", *result.Merged.Header.ContractNo)

	require.NotNil(t, result.Merged.Parties.Seller)
	assert.Equal(t, "AGRO EXIM PVT LTD", *result.Merged.Parties.Seller,
		"first uploaded document wins on conflicting fields")
	require.NotNil(t, result.Merged.Header.Date)
	assert.Equal(t, "2024-03-15", *result.Merged.Header.Date)
}

func TestReconcileEndpoint(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/reconcile", proposalUpload(), agreementUpload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result tradedoc.ReconcileResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, reconcile.VerdictUnsuccessfulMatch, result.Verdict)
	assert.Equal(t, 1, result.Indicators["contract_no"])
	assert.Equal(t, 0, result.Indicators["seller"])

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "PDF_1", result.Rows[0].Label)
	assert.Equal(t, "proposal.pdf", result.Rows[0].Name)
	assert.Equal(t, "agreement.pdf", result.Rows[1].Name)
}

func TestTableEndpointAfterReconcile(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/reconcile", proposalUpload(), agreementUpload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(t, s, "/v1/reconcile/table")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reconciliation.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Document", records[0][0])
	assert.Equal(t, "PDF_1", records[1][0])
	assert.Equal(t, "PDF_2", records[2][0])
	assert.Equal(t, "Match", records[3][0])
}

func TestTableEndpointBeforeAnyRun(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := get(t, s, "/v1/reconcile/table")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec), "no reconciliation table")
}

func TestWorkbookEndpoint(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/reconcile", proposalUpload(), agreementUpload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(t, s, "/v1/reconcile/workbook")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")),
		"workbook responses are zip archives")
}

func TestWorkbookEndpointBeforeAnyRun(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := get(t, s, "/v1/reconcile/workbook")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/validate", proposalUpload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result pdf.ValidateBytesResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "proposal.pdf", result.Name)
	assert.Equal(t, 1, result.Pages)
}

func TestValidateEndpointInvalidDocument(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/validate",
		upload{name: "broken.pdf", data: []byte("not a pdf at all")},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	var result pdf.ValidateBytesResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)
}

func TestValidateEndpointWrongCount(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := postFiles(t, s, "/v1/documents/validate", proposalUpload(), agreementUpload())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "exactly one PDF file is required", decodeError(t, rec))
}

func TestInfoEndpoint(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := get(t, s, "/v1/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var info tradedoc.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "trade-doc-match-test", info.ServiceName)
	assert.Equal(t, int64(testMaxFileSize), info.MaxFileSize)
	assert.NotEmpty(t, info.CatalogFields)
	assert.Contains(t, info.CatalogFields, "contract_no")
}

func TestRequestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, 1)

	big := []byte(strings.Repeat("x", 600_000))
	rec := postFiles(t, s, "/v1/documents/extract",
		upload{name: "a.pdf", data: big},
		upload{name: "b.pdf", data: big},
	)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "request body too large", decodeError(t, rec))
}

func TestRouterUnknownPath(t *testing.T) {
	s := newTestServer(t, testMaxFileSize)

	rec := get(t, s, "/v1/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
