package pdf

// ReadBytesRequest represents a request to extract text from in-memory PDF bytes
type ReadBytesRequest struct {
	// Name is the original filename, used for error context only
	Name string `json:"name,omitempty"`
	// Data is the raw PDF byte content
	Data []byte `json:"-"`
}

// ReadBytesResult represents the extracted text of a document
type ReadBytesResult struct {
	// Text is the concatenation of per-page text joined by newlines.
	// Pages that yield no text contribute an empty string.
	Text string `json:"text"`
	// Pages is the number of pages in the document
	Pages int `json:"pages"`
	// Size is the byte size of the input
	Size int64 `json:"size"`
}

// ValidateBytesRequest represents a request to validate in-memory PDF bytes
type ValidateBytesRequest struct {
	Name string `json:"name,omitempty"`
	Data []byte `json:"-"`
}

// ValidateBytesResult represents the outcome of structural validation
type ValidateBytesResult struct {
	Name    string `json:"name,omitempty"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Version string `json:"version,omitempty"`
}
