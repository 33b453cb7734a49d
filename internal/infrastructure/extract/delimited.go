package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DelimitedParser reads CSV, TSV and other single-character delimited files
// with encoding detection and a header row.
type DelimitedParser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	headers    []string
	currentRow int
	reader     *csv.Reader
	bufReader  *bufio.Reader
	sourceFile string
}

// ParserOption is a functional option for DelimitedParser configuration
type ParserOption func(*DelimitedParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *DelimitedParser) {
		p.delimiter = d
	}
}

// WithSourceFile records the file name attached to every parsed row
func WithSourceFile(name string) ParserOption {
	return func(p *DelimitedParser) {
		p.sourceFile = name
	}
}

// NewDelimitedParser creates a parser from a reader
func NewDelimitedParser(r io.Reader, opts ...ParserOption) (*DelimitedParser, error) {
	parser := &DelimitedParser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
	}

	for _, opt := range opts {
		opt(parser)
	}

	parser.bufReader = bufio.NewReader(r)

	// Detect and strip UTF-8 BOM
	content, err := parser.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		_, _ = parser.bufReader.Discard(3)
	}

	if err := validateUTF8(parser.bufReader); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(parser.bufReader)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = parser.trimSpace
	parser.reader.FieldsPerRecord = -1

	return parser, nil
}

// validateUTF8 checks that the content is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}

	if len(content) == 0 {
		return ErrEmptyFile
	}

	// A peek can end mid-rune; trim the trailing partial sequence before
	// validating.
	end := len(content)
	for end > 0 && end > len(content)-utf8.UTFMax {
		if r, _ := utf8.DecodeLastRune(content[:end]); r != utf8.RuneError {
			break
		}
		end--
	}
	if !utf8.Valid(content[:end]) {
		return ErrInvalidEncoding
	}

	return nil
}

// ParseHeader reads and parses the header row
func (p *DelimitedParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		if p.trimSpace {
			h = strings.TrimSpace(h)
		}
		p.headers[i] = h
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1

	return nil
}

// Headers returns the parsed header names
func (p *DelimitedParser) Headers() []string {
	return p.headers
}

// ReadRow reads the next data row
func (p *DelimitedParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++

	row := &Row{
		SourceFile: p.sourceFile,
		LineNumber: p.currentRow,
		Values:     make(map[string]string, len(p.headers)),
	}

	for i, header := range p.headers {
		if i < len(record) {
			value := record[i]
			if p.trimSpace {
				value = strings.TrimSpace(value)
			}
			row.Values[header] = value
		} else {
			row.Values[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads all remaining rows, skipping fully empty ones
func (p *DelimitedParser) ReadAllRows() ([]Row, error) {
	var rows []Row

	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}

		if row.IsEmpty() {
			continue
		}

		rows = append(rows, *row)
	}

	return rows, nil
}

// delimiterCandidates are tried in order when sniffing
var delimiterCandidates = []rune{',', '\t', ';', '|'}

// SniffDelimiter guesses the delimiter of a sample by counting candidate
// occurrences outside quoted sections on the first line. Comma wins ties.
func SniffDelimiter(sample []byte) rune {
	line := sample
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		line = sample[:idx]
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, b := range line {
		switch {
		case b == '"':
			inQuotes = !inQuotes
		case !inQuotes:
			for _, d := range delimiterCandidates {
				if rune(b) == d {
					counts[d]++
				}
			}
		}
	}

	best := ','
	bestCount := counts[',']
	for _, d := range delimiterCandidates[1:] {
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	return best
}
