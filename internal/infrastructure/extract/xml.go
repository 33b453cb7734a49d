package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// xmlNode is a generic element tree used for record discovery
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

// ExtractXML extracts records from an XML document. When recordPath is set
// (dot-separated element names, with or without the document root as the
// first segment, e.g. "vendors.vendor") the named element is the record;
// otherwise the first repeating element found walking down from the root
// is used. Child elements and attributes flatten
// into dotted column names relative to the record.
func ExtractXML(data []byte, sourceFile, recordPath string) ([]Row, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}

	var records []xmlNode
	if recordPath != "" {
		records = nodesAtPath(&root, strings.Split(recordPath, "."))
	} else {
		records = inferRecords(&root)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		values := make(map[string]string)
		for _, attr := range rec.Attrs {
			values[attr.Name.Local] = strings.TrimSpace(attr.Value)
		}
		for _, child := range rec.Children {
			flattenXML("", &child, values)
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{
			SourceFile: sourceFile,
			LineNumber: i + 1,
			Values:     values,
		})
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	return rows, nil
}

// nodesAtPath descends from the root by element names and returns every
// element at the final path step. The first segment may name the root
// element itself, so "catalog.vendors.vendor" and "vendors.vendor" both
// resolve against <catalog>.
func nodesAtPath(root *xmlNode, path []string) []xmlNode {
	if found := descendPath(root, path); len(found) > 0 {
		return found
	}
	if len(path) > 1 && path[0] == root.XMLName.Local {
		return descendPath(root, path[1:])
	}
	return nil
}

func descendPath(root *xmlNode, path []string) []xmlNode {
	current := []xmlNode{*root}
	for _, step := range path {
		var next []xmlNode
		for _, node := range current {
			for _, child := range node.Children {
				if child.XMLName.Local == step {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

// inferRecords walks down from the root looking for the first element whose
// children repeat a name. Those repeated children are the records. A
// document with a single record-like leaf object yields that one node.
func inferRecords(root *xmlNode) []xmlNode {
	queue := []xmlNode{*root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		counts := make(map[string]int)
		for _, child := range node.Children {
			counts[child.XMLName.Local]++
		}
		for name, count := range counts {
			if count < 2 {
				continue
			}
			var records []xmlNode
			for _, child := range node.Children {
				if child.XMLName.Local == name {
					records = append(records, child)
				}
			}
			return records
		}

		queue = append(queue, node.Children...)
	}

	// No repetition anywhere: treat the deepest element with element
	// children as a single record.
	node := root
	for len(node.Children) == 1 && len(node.Children[0].Children) > 0 {
		node = &node.Children[0]
	}
	if len(node.Children) > 0 {
		return []xmlNode{*node}
	}
	return nil
}

// flattenXML writes leaf text and attributes into values with dotted keys
func flattenXML(prefix string, node *xmlNode, values map[string]string) {
	key := node.XMLName.Local
	if prefix != "" {
		key = prefix + "." + key
	}

	for _, attr := range node.Attrs {
		values[key+"."+attr.Name.Local] = strings.TrimSpace(attr.Value)
	}

	if len(node.Children) == 0 {
		if text := strings.TrimSpace(node.Text); text != "" || values[key] == "" {
			values[key] = text
		}
		return
	}

	for _, child := range node.Children {
		flattenXML(key, &child, values)
	}
}

// looksLikeXML reports whether a sample starts an XML document
func looksLikeXML(sample []byte) bool {
	trimmed := bytes.TrimLeft(sample, " \t\r\n\xef\xbb\xbf")
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// looksLikeJSON reports whether a sample starts a JSON document
func looksLikeJSON(sample []byte) bool {
	trimmed := bytes.TrimLeft(sample, " \t\r\n\xef\xbb\xbf")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
