// Package document handles intake of source PDFs before recognition:
// validation against size and format constraints, page and asset inventory,
// and the content-hash identity used to key downstream results.
package document

// ValidateFileRequest represents a request to validate a document file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileResult represents the result of a document validation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// ImageInfo represents information about an image embedded in a document
type ImageInfo struct {
	PageNumber int    `json:"page_number"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
	Size       int64  `json:"size"`
}

// DescribeFileRequest represents a request to inspect a document file
type DescribeFileRequest struct {
	Path string `json:"path"`
}

// DescribeFileResult represents the inventory of a document file
type DescribeFileResult struct {
	Path            string      `json:"path"`
	DocumentID      string      `json:"document_id"`
	Size            int64       `json:"size"`
	Pages           int         `json:"pages"`
	ModifiedDate    string      `json:"modified_date"`
	HasEmbeddedText bool        `json:"has_embedded_text"`
	Images          []ImageInfo `json:"images"`
	Title           string      `json:"title,omitempty"`
	Author          string      `json:"author,omitempty"`
	Producer        string      `json:"producer,omitempty"`
}
