// Package schemas embeds the JSON Schemas of the files the application reads and writes.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names.
const (
	CompanyTemplate  = "company_template.schema.json"
	RecordingsExport = "recordings_export.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw content of an embedded schema.
func Read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("schema not found: %s", name)
	}
	return data, nil
}
