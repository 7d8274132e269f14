package gradio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Table is a Gradio Dataframe output: a header list and row lists.
type Table struct {
	Headers []string
	Rows    [][]any
}

// Row is one table row paired with its headers. It encodes as a JSON object
// whose keys keep the header order.
type Row struct {
	headers []string
	values  []any
}

// ParseTable reads a Dataframe output value ({"headers": [...], "data": [[...]]}).
func ParseTable(v any) (Table, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Table{}, errors.New("gradio: output is not a dataframe object")
	}

	var t Table
	if hs, ok := obj["headers"].([]any); ok {
		for _, h := range hs {
			t.Headers = append(t.Headers, fmt.Sprint(h))
		}
	}
	if rows, ok := obj["data"].([]any); ok {
		for _, r := range rows {
			if cells, ok := r.([]any); ok {
				t.Rows = append(t.Rows, cells)
			}
		}
	}
	return t, nil
}

// Records zips every row with the headers. Cells past the last header are
// dropped and missing cells are left out, as with zip.
func (t Table) Records() []Row {
	out := make([]Row, 0, len(t.Rows))
	for _, cells := range t.Rows {
		n := min(len(cells), len(t.Headers))
		out = append(out, Row{headers: t.Headers[:n], values: cells[:n]})
	}
	return out
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(h)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeRecords renders rows as indented JSON with non-ASCII text left as-is.
func EncodeRecords(rows []Row) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
