package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExtractJSON extracts records from a JSON document. Accepted shapes are a
// top-level array of objects, or an object containing an array of objects
// under some key. Nested objects flatten into dotted column names; scalar
// arrays join into a single value.
func ExtractJSON(data []byte, sourceFile string) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	records := jsonRecords(doc)
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		values := make(map[string]string)
		flattenJSON("", rec, values)
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{
			SourceFile: sourceFile,
			// JSON carries no line numbers; records are numbered from 1.
			LineNumber: i + 1,
			Values:     values,
		})
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	return rows, nil
}

// jsonRecords locates the record list in a decoded document
func jsonRecords(doc interface{}) []map[string]interface{} {
	switch v := doc.(type) {
	case []interface{}:
		return objectsOf(v)
	case map[string]interface{}:
		// Prefer the first key holding an array of objects, scanning keys
		// in stable order.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := v[k].([]interface{}); ok {
				if objs := objectsOf(arr); len(objs) > 0 {
					return objs
				}
			}
		}
		// A bare object is a single record.
		return []map[string]interface{}{v}
	}
	return nil
}

func objectsOf(arr []interface{}) []map[string]interface{} {
	objs := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil
		}
		objs = append(objs, obj)
	}
	return objs
}

// flattenJSON writes scalar leaves of an object into values with dotted keys
func flattenJSON(prefix string, obj map[string]interface{}, values map[string]string) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]interface{}:
			flattenJSON(key, child, values)
		case []interface{}:
			if s, ok := joinScalars(child); ok {
				values[key] = s
			}
			// Arrays of objects nested inside a record are not columns.
		default:
			values[key] = jsonScalar(v)
		}
	}
}

// joinScalars renders an array of scalars as a single delimited value
func joinScalars(arr []interface{}) (string, bool) {
	parts := make([]string, 0, len(arr))
	for _, item := range arr {
		switch item.(type) {
		case map[string]interface{}, []interface{}:
			return "", false
		}
		parts = append(parts, jsonScalar(item))
	}
	return strings.Join(parts, "; "), true
}

func jsonScalar(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
