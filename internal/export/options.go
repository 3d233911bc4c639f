package export

import "strings"

const (
	DefaultFileName  = "export.xlsx"
	DefaultSheetName = "Sheet1"
	DefaultChunkSize = 1000

	// ContentType is the MIME type of the produced workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	minColumnWidth = 10
	maxColumnWidth = 50
)

// Column renames a record key to a header and fixes column order.
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// Options shape one workbook.
type Options struct {
	FileName  string `json:"fileName,omitempty"`
	SheetName string `json:"sheetName,omitempty"`
	// ChunkSize overrides the pipeline's chunk size for this export.
	ChunkSize int `json:"chunkSize,omitempty"`
	// Columns, when set, replaces header inference: only these keys are
	// written, in this order, under these headers.
	Columns []Column `json:"columns,omitempty"`
	// DateFields lists headers whose string values are written as dates.
	DateFields []string `json:"dateFields,omitempty"`
	// AutoWidth sizes columns to their content, clamped to [10, 50] characters.
	AutoWidth bool `json:"autoWidth,omitempty"`
}

func (o Options) withDefaults(chunkSize int) Options {
	if strings.TrimSpace(o.FileName) == "" {
		o.FileName = DefaultFileName
	}
	if strings.TrimSpace(o.SheetName) == "" {
		o.SheetName = DefaultSheetName
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = chunkSize
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

func (o Options) isDateField(header string) bool {
	for _, f := range o.DateFields {
		if f == header {
			return true
		}
	}
	return false
}
