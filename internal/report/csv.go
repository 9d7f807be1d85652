package report

import (
	"bytes"
	"encoding/csv"
)

// WriteCSV serializes the document with a small metadata preamble followed
// by the table itself.
func WriteCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	meta := [][]string{
		{"title", doc.Title},
		{"province", doc.Province},
		{"period", doc.Period},
		{"generated_on", doc.GeneratedOn},
		{},
	}
	for _, row := range meta {
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}

	if err := cw.Write(doc.Headers); err != nil {
		return nil, err
	}
	for _, row := range doc.Rows {
		if err := cw.Write(row.Cells); err != nil {
			return nil, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
