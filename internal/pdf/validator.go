package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator performs structural validation of PDF documents
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateBytes performs comprehensive validation on in-memory PDF bytes.
// A failed validation is reported in the result, not as an error.
func (v *Validator) ValidateBytes(req ValidateBytesRequest) (*ValidateBytesResult, error) {
	result := &ValidateBytesResult{
		Name:  req.Name,
		Valid: false,
	}

	pages, version, err := v.validatePDFBytes(req.Name, req.Data)
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}

	result.Valid = true
	result.Pages = pages
	result.Version = version
	return result, nil
}

// validatePDFBytes performs detailed validation on PDF byte content
func (v *Validator) validatePDFBytes(name string, data []byte) (int, string, error) {
	if len(data) == 0 {
		return 0, "", errors.New("document is empty")
	}

	if name != "" && !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return 0, "", fmt.Errorf("file is not a PDF: %s", name)
	}

	if int64(len(data)) > v.maxFileSize {
		return 0, "", fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			len(data), v.maxFileSize)
	}

	ctx, err := readContext(data)
	if err != nil {
		return 0, "", fmt.Errorf("invalid PDF file: %w", err)
	}

	version := ""
	if ctx.HeaderVersion != nil {
		version = ctx.HeaderVersion.String()
	}

	return ctx.PageCount, version, nil
}

// readContext parses the byte content with relaxed structural validation
func readContext(data []byte) (ctx *model.Context, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err = api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}

	return ctx, nil
}

// IsValidPDF performs a quick check that the byte content is a valid PDF
func (v *Validator) IsValidPDF(data []byte) bool {
	_, _, err := v.validatePDFBytes("", data)
	return err == nil
}

// HasPDFExtension reports whether the filename carries a .pdf suffix
func HasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
