package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Format is the resolved source file format
type Format string

const (
	FormatAuto      Format = "auto"
	FormatCSV       Format = "csv"
	FormatTSV       Format = "tsv"
	FormatJSON      Format = "json"
	FormatXML       Format = "xml"
	FormatDelimited Format = "delimited"
)

// File is one uploaded source file
type File struct {
	Name string
	Data []byte
}

// Options controls extraction behavior
type Options struct {
	// Format is the declared format; FormatAuto detects per file.
	Format Format
	// RecordPath names the repeating XML record element, dot separated.
	RecordPath string
	// MaxRows caps the total row count across all files. Zero means no cap.
	MaxRows int
}

// DetectFormat resolves a file's format from its extension, falling back to
// content sniffing
func DetectFormat(name string, sample []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".json":
		return FormatJSON
	case ".xml":
		return FormatXML
	}

	if looksLikeJSON(sample) {
		return FormatJSON
	}
	if looksLikeXML(sample) {
		return FormatXML
	}
	if SniffDelimiter(sample) == '\t' {
		return FormatTSV
	}
	return FormatDelimited
}

// ExtractFile extracts rows from a single file, returning the file's
// columns in a stable order
func ExtractFile(file File, opts Options) ([]Row, []string, error) {
	if len(file.Data) == 0 {
		return nil, nil, ErrEmptyFile
	}

	format := opts.Format
	if format == FormatAuto || format == "" {
		format = DetectFormat(file.Name, file.Data)
	}

	switch format {
	case FormatJSON:
		rows, err := ExtractJSON(file.Data, file.Name)
		return rows, sortedHeaders(rows), err
	case FormatXML:
		rows, err := ExtractXML(file.Data, file.Name, opts.RecordPath)
		return rows, sortedHeaders(rows), err
	case FormatCSV:
		return extractDelimited(file, ',')
	case FormatTSV:
		return extractDelimited(file, '\t')
	case FormatDelimited:
		return extractDelimited(file, SniffDelimiter(file.Data))
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func extractDelimited(file File, delimiter rune) ([]Row, []string, error) {
	parser, err := NewDelimitedParser(strings.NewReader(string(file.Data)),
		WithDelimiter(delimiter), WithSourceFile(file.Name))
	if err != nil {
		return nil, nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, nil, err
	}
	rows, err := parser.ReadAllRows()
	return rows, parser.Headers(), err
}

// sortedHeaders is the stable column order for formats without a header
// row: the union of observed keys, sorted
func sortedHeaders(rows []Row) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for k := range row.Values {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)
	return headers
}

// ExtractAll extracts every file and concatenates the results. A file that
// fails to parse is recorded in Result.FileErrors and contributes nothing;
// the remaining files still extract. The row cap aborts the whole job
// because a truncated import would silently lose data.
func ExtractAll(files []File, opts Options) (*Result, error) {
	result := &Result{}
	seen := make(map[string]bool)

	for _, file := range files {
		rows, headers, err := ExtractFile(file, opts)
		if err != nil {
			result.FileErrors = append(result.FileErrors,
				NewFileError(file.Name, classifyError(err), err))
			continue
		}

		if opts.MaxRows > 0 && len(result.Rows)+len(rows) > opts.MaxRows {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyRows, opts.MaxRows)
		}

		result.addHeaders(headers, seen)
		result.Rows = append(result.Rows, rows...)
	}

	return result, nil
}

func classifyError(err error) string {
	switch {
	case err == ErrEmptyFile:
		return ErrCodeExtractEmptyFile
	case err == ErrInvalidEncoding:
		return ErrCodeExtractInvalidEncoding
	case err == ErrMissingHeader:
		return ErrCodeExtractMissingHeader
	case err == ErrNoRecords:
		return ErrCodeExtractNoRecords
	default:
		return ErrCodeExtractUnknown
	}
}

// Column type names reported by DetectColumnType
const (
	TypeText   = "text"
	TypeNumber = "number"
	TypeDate   = "date"
	TypeEmail  = "email"
	TypePhone  = "phone"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DetectColumnType classifies a column from its non-empty values. Every
// non-empty value must agree for a non-text type to win; mixed columns are
// text.
func DetectColumnType(values []string) string {
	detected := ""
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		t := classifyValue(v)
		if detected == "" {
			detected = t
		} else if detected != t {
			return TypeText
		}
	}
	if detected == "" {
		return TypeText
	}
	return detected
}

func classifyValue(v string) string {
	if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
		return TypeNumber
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return TypeDate
		}
	}
	if emailPattern.MatchString(v) {
		return TypeEmail
	}
	if isPhone(v) {
		return TypePhone
	}
	return TypeText
}

// isPhone accepts strings that are mostly digits with common separators
func isPhone(v string) bool {
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
