package extract

// Row is one extracted record with its source position. Values are keyed by
// the original header or flattened node name as seen in the file.
type Row struct {
	SourceFile string
	LineNumber int
	Values     map[string]string
}

// Get returns the value for a column by its original header name
func (r *Row) Get(header string) string {
	return r.Values[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Result is the outcome of extracting one or more files: the union of
// observed columns in first-seen order and every record row.
type Result struct {
	Headers []string
	Rows    []Row
	// FileErrors holds per-file failures. Files listed here contributed no
	// rows; the rest of the result is still usable.
	FileErrors []*FileError
}

func (r *Result) addHeaders(headers []string, seen map[string]bool) {
	for _, h := range headers {
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		r.Headers = append(r.Headers, h)
	}
}
