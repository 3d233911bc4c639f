package service

import (
	"fmt"
	"math/rand/v2"

	"Mansoor88-6/time-tracker/internal/export"
)

const (
	DemoStartDate = "2023-01-01"
	DemoEndDate   = "2023-12-31"
	demoRowCount  = 5
)

// DemoFilter narrows the demo data set. The fake source accepts it but does
// not apply it.
type DemoFilter struct {
	StartDate string
	EndDate   string
}

func (f DemoFilter) WithDefaults() DemoFilter {
	if f.StartDate == "" {
		f.StartDate = DemoStartDate
	}
	if f.EndDate == "" {
		f.EndDate = DemoEndDate
	}
	return f
}

// DemoOptions names the sheet and file of the demo download.
func DemoOptions() export.Options {
	return export.Options{FileName: "data-export.xlsx", SheetName: "Data Export"}
}

// DemoRows fabricates the fixed demo data set with random values.
func DemoRows(_ DemoFilter, rnd *rand.Rand) []export.Record {
	rows := make([]export.Record, demoRowCount)
	for i := range rows {
		n := i + 1
		rows[i] = export.Record{
			{Key: "id", Value: fmt.Sprintf("item-%d", n)},
			{Key: "date", Value: fmt.Sprintf("2023-11-%02d", 9+n)},
			{Key: "value", Value: rnd.IntN(100)},
		}
	}
	return rows
}
