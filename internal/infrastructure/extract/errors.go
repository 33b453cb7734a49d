package extract

import (
	"errors"
	"fmt"
)

// Extraction error codes
const (
	ErrCodeExtractUnknown         = "ERR_EXTRACT_UNKNOWN"
	ErrCodeExtractEmptyFile       = "ERR_EXTRACT_EMPTY_FILE"
	ErrCodeExtractInvalidEncoding = "ERR_EXTRACT_INVALID_ENCODING"
	ErrCodeExtractMissingHeader   = "ERR_EXTRACT_MISSING_HEADER"
	ErrCodeExtractMalformedRow    = "ERR_EXTRACT_MALFORMED_ROW"
	ErrCodeExtractBadJSON         = "ERR_EXTRACT_BAD_JSON"
	ErrCodeExtractBadXML          = "ERR_EXTRACT_BAD_XML"
	ErrCodeExtractNoRecords       = "ERR_EXTRACT_NO_RECORDS"
	ErrCodeExtractTooManyRows     = "ERR_EXTRACT_TOO_MANY_ROWS"
	ErrCodeExtractUnknownFormat   = "ERR_EXTRACT_UNKNOWN_FORMAT"
)

// Common extraction errors
var (
	// ErrEmptyFile is returned when the source file has no content
	ErrEmptyFile = errors.New("source file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when a delimited file has no header row
	ErrMissingHeader = errors.New("file missing header row")

	// ErrNoRecords is returned when no repeating records could be located
	ErrNoRecords = errors.New("no records found in file")

	// ErrTooManyRows is returned when a job exceeds the row cap
	ErrTooManyRows = errors.New("row count exceeds the per-job limit")

	// ErrUnknownFormat is returned when the file format cannot be detected
	ErrUnknownFormat = errors.New("cannot detect file format")
)

// FileError wraps an extraction failure with the file it came from. One bad
// file fails only itself; the remaining files of the job still extract.
type FileError struct {
	File string
	Code string
	Err  error
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s: %s", e.File, e.Err)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError wraps an error with its source file
func NewFileError(file, code string, err error) *FileError {
	return &FileError{File: file, Code: code, Err: err}
}
