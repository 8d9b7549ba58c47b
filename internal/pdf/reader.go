package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader turns raw PDF bytes into plain document text
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadBytes extracts text content from in-memory PDF bytes. Pages are
// visited in file order and their texts joined by a single newline; a
// page that yields no text contributes an empty string rather than an
// error. An empty overall text is not an error at this layer.
func (r *Reader) ReadBytes(req ReadBytesRequest) (*ReadBytesResult, error) {
	if len(req.Data) == 0 {
		return nil, NewOpenError("read", req.Name, errors.New("document is empty"))
	}

	if int64(len(req.Data)) > r.maxFileSize {
		return nil, NewTooLargeError(req.Name, int64(len(req.Data)), r.maxFileSize)
	}

	pdfReader, err := openReader(req.Data)
	if err != nil {
		return nil, NewOpenError("read", req.Name, fmt.Errorf("failed to open PDF: %w", err))
	}

	result := &ReadBytesResult{
		Text:  r.extractTextContent(pdfReader),
		Pages: pdfReader.NumPage(),
		Size:  int64(len(req.Data)),
	}

	return result, nil
}

// openReader parses the byte content into a PDF reader. The underlying
// parser panics on some malformed inputs, so failures are normalized to
// an error either way.
func openReader(data []byte) (pdfReader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// extractTextContent collects the plain text of every page
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) string {
	numPages := pdfReader.NumPage()
	pageTexts := make([]string, 0, numPages)
	totalLength := 0

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		content := r.extractPageText(pdfReader, pageNum)

		// Truncate rather than fail when a pathological document
		// expands past the text limit
		if totalLength+len(content) > r.maxTextSize {
			content = content[:r.maxTextSize-totalLength]
		}

		pageTexts = append(pageTexts, content)
		totalLength += len(content)

		if totalLength >= r.maxTextSize {
			break
		}
	}

	return strings.Join(pageTexts, "\n")
}

// extractPageText returns the text of a single page, or an empty string
// when the page is missing, unreadable, or simply has no text
func (r *Reader) extractPageText(pdfReader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		// Text extraction can panic on damaged page content
		if recover() != nil {
			text = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}

	return content
}
