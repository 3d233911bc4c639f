package export

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"Mansoor88-6/time-tracker/internal/chunk"

	"github.com/xuri/excelize/v2"
)

const dateNumFmt = "yyyy-mm-dd"

// worker converts one record list into a workbook. It is owned by a single
// goroutine and shares nothing with other exports.
type worker struct {
	data  []Record
	opts  Options
	delay time.Duration
	emit  func(Message)

	lastProgress int

	file      *excelize.File
	stream    *excelize.StreamWriter
	header    []string
	keys      []string
	dateStyle int
	nextRow   int
}

func newWorker(data []Record, opts Options, delay time.Duration, emit func(Message)) *worker {
	return &worker{data: data, opts: opts, delay: delay, emit: emit, lastProgress: -1, nextRow: 1}
}

// progress emits p unless it would not move the bar forward.
func (w *worker) progress(p int) {
	if p <= w.lastProgress {
		return
	}
	w.lastProgress = p
	w.emit(Message{Status: StatusProgress, Progress: p})
}

func (w *worker) run(ctx context.Context) ([]byte, error) {
	w.progress(0)
	if ctx.Err() != nil {
		return nil, ErrCanceled
	}

	w.file = excelize.NewFile()
	defer w.file.Close()

	if w.opts.SheetName != DefaultSheetName {
		if err := w.file.SetSheetName(DefaultSheetName, w.opts.SheetName); err != nil {
			return nil, fmt.Errorf("invalid sheet name %q: %w", w.opts.SheetName, err)
		}
	}

	stream, err := w.file.NewStreamWriter(w.opts.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	w.stream = stream

	total := len(w.data)
	err = chunk.ForEach(ctx, w.data, chunk.Options{
		Size:  w.opts.ChunkSize,
		Delay: w.delay,
		OnProgress: func(processed, total int) {
			w.progress(int(math.Round(float64(processed) / float64(total) * 100)))
		},
	}, w.appendChunk)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCanceled
		}
		return nil, err
	}

	if err := w.stream.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	if total == 0 || w.lastProgress < 100 {
		w.progress(100)
	}
	return buf.Bytes(), nil
}

// appendChunk writes one batch. The first batch fixes the header; later
// batches only add rows under it.
func (w *worker) appendChunk(start int, batch []Record) error {
	if start == 0 {
		w.inferHeader(batch)
		if w.opts.AutoWidth {
			if err := w.applyWidths(); err != nil {
				return err
			}
		}
		if len(w.header) > 0 {
			header := make([]any, len(w.header))
			for i, h := range w.header {
				header[i] = h
			}
			if err := w.writeRow(header); err != nil {
				return err
			}
		}
	}

	for _, rec := range batch {
		values, err := w.rowValues(rec)
		if err != nil {
			return err
		}
		if err := w.writeRow(values); err != nil {
			return err
		}
	}
	return nil
}

func (w *worker) writeRow(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.nextRow)
	if err != nil {
		return err
	}
	if err := w.stream.SetRow(cell, values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.nextRow, err)
	}
	w.nextRow++
	return nil
}

func (w *worker) inferHeader(first []Record) {
	if len(w.opts.Columns) > 0 {
		for _, c := range w.opts.Columns {
			header := c.Header
			if header == "" {
				header = c.Key
			}
			w.header = append(w.header, header)
			w.keys = append(w.keys, c.Key)
		}
		return
	}

	seen := make(map[string]bool)
	for _, rec := range first {
		for _, f := range rec {
			if !seen[f.Key] {
				seen[f.Key] = true
				w.header = append(w.header, f.Key)
			}
		}
	}
	w.keys = w.header
}

// rowValues lays rec out under the header. Keys outside the header are
// dropped and missing keys leave the cell empty.
func (w *worker) rowValues(rec Record) ([]any, error) {
	values := make([]any, len(w.keys))
	for i, key := range w.keys {
		v, ok := rec.Get(key)
		if !ok || v == nil {
			continue
		}
		cell, err := w.cellValue(w.header[i], v)
		if err != nil {
			return nil, err
		}
		values[i] = cell
	}
	return values, nil
}

func (w *worker) cellValue(header string, v any) (any, error) {
	if w.opts.isDateField(header) {
		if t, ok := parseDate(v); ok {
			style, err := w.dateStyleID()
			if err != nil {
				return nil, err
			}
			return excelize.Cell{StyleID: style, Value: t}, nil
		}
	}

	switch val := v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return val, nil
	case time.Time:
		style, err := w.dateStyleID()
		if err != nil {
			return nil, err
		}
		return excelize.Cell{StyleID: style, Value: val}, nil
	case time.Duration:
		return val.String(), nil
	default:
		return fmt.Sprint(val), nil
	}
}

func (w *worker) dateStyleID() (int, error) {
	if w.dateStyle != 0 {
		return w.dateStyle, nil
	}
	numFmt := dateNumFmt
	id, err := w.file.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return 0, fmt.Errorf("failed to create date style: %w", err)
	}
	w.dateStyle = id
	return id, nil
}

// applyWidths measures every record up front because the stream writer only
// accepts column widths before the first row.
func (w *worker) applyWidths() error {
	if len(w.header) == 0 {
		return nil
	}

	widths := make([]int, len(w.header))
	for i, h := range w.header {
		widths[i] = max(minColumnWidth, utf8.RuneCountInString(h))
	}
	for _, rec := range w.data {
		for i, key := range w.keys {
			v, ok := rec.Get(key)
			if !ok || v == nil {
				continue
			}
			n := utf8.RuneCountInString(fmt.Sprint(v))
			widths[i] = min(maxColumnWidth, max(widths[i], n))
		}
	}

	for i, width := range widths {
		if err := w.stream.SetColWidth(i+1, i+1, float64(width)); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func parseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
