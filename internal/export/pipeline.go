// Package export turns flat records into xlsx workbooks in the background.
//
// Each call to Pipeline.Start owns one goroutine. The goroutine reports
// strictly increasing progress values ending at 100 and then exactly one
// terminal message (success or error), after which its message channel is
// closed.
package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCanceled    = errors.New("export canceled")
	ErrTooManyRows = errors.New("too many rows to export")
)

// Status is the kind of a job message and the job's current state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusProgress Status = "progress"
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
)

// Message is one event from the background unit.
type Message struct {
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	Result   []byte `json:"-"`
	Error    string `json:"error,omitempty"`
}

// Result is a finished workbook.
type Result struct {
	FileName  string
	SheetName string
	Rows      int
	Data      []byte
}

// maxMessages bounds what a job can emit: progress 0..100 plus one terminal
// message. Buffering that many means the worker never blocks on a slow reader.
const maxMessages = 102

// Config holds the defaults shared by every export of a pipeline.
type Config struct {
	ChunkSize int
	// ChunkDelay is waited between chunks. Zero only yields the processor.
	ChunkDelay time.Duration
	// MaxRows rejects larger inputs before any work starts. Zero means no limit.
	MaxRows int
}

// Pipeline starts background exports.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

// NewPipeline creates a pipeline with cfg, defaulting the chunk size.
func NewPipeline(cfg Config, logger *zap.Logger) *Pipeline {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Job tracks one export run.
type Job struct {
	ID      string
	Options Options

	messages chan Message
	done     chan struct{}
	cancel   context.CancelFunc

	mu        sync.RWMutex
	status    Status
	progress  int
	result    Result
	err       error
	startedAt time.Time
	endedAt   time.Time
}

// Start hands data to a new background goroutine and returns immediately.
// The records are copied, so the caller may reuse its slice.
func (p *Pipeline) Start(ctx context.Context, data []Record, opts Options) *Job {
	opts = opts.withDefaults(p.cfg.ChunkSize)
	ctx, cancel := context.WithCancel(ctx)

	job := &Job{
		ID:        uuid.NewString(),
		Options:   opts,
		messages:  make(chan Message, maxMessages),
		done:      make(chan struct{}),
		cancel:    cancel,
		status:    StatusPending,
		startedAt: time.Now(),
	}

	snapshot := make([]Record, len(data))
	for i, rec := range data {
		snapshot[i] = append(Record(nil), rec...)
	}

	go p.run(ctx, job, snapshot)
	return job
}

// Export runs an export and waits for its outcome.
func (p *Pipeline) Export(ctx context.Context, data []Record, opts Options) (Result, error) {
	return p.Start(ctx, data, opts).Wait(ctx)
}

func (p *Pipeline) run(ctx context.Context, job *Job, data []Record) {
	defer job.cancel()

	logger := p.logger.With(
		zap.String("job_id", job.ID),
		zap.String("file_name", job.Options.FileName),
	)
	logger.Debug("Export started", zap.Int("rows", len(data)))

	var (
		out []byte
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("export panicked: %v", r)
			}
		}()

		if p.cfg.MaxRows > 0 && len(data) > p.cfg.MaxRows {
			err = fmt.Errorf("%w: %d rows exceeds the limit of %d", ErrTooManyRows, len(data), p.cfg.MaxRows)
			return
		}
		out, err = newWorker(data, job.Options, p.cfg.ChunkDelay, job.emit).run(ctx)
	}()

	if err != nil {
		logger.Warn("Export failed", zap.Error(err))
		job.finish(Message{Status: StatusError, Error: err.Error()}, Result{}, err)
		return
	}

	result := Result{
		FileName:  job.Options.FileName,
		SheetName: job.Options.SheetName,
		Rows:      len(data),
		Data:      out,
	}
	logger.Info("Export completed",
		zap.Int("rows", result.Rows),
		zap.Int("bytes", len(out)),
		zap.Duration("elapsed", time.Since(job.startedAt)),
	)
	job.finish(Message{Status: StatusSuccess, Progress: 100, Result: out}, result, nil)
}

func (j *Job) emit(msg Message) {
	j.mu.Lock()
	j.status = msg.Status
	j.progress = msg.Progress
	j.mu.Unlock()

	j.messages <- msg
}

func (j *Job) finish(msg Message, result Result, err error) {
	j.mu.Lock()
	j.status = msg.Status
	if err == nil {
		j.progress = 100
	}
	j.result = result
	j.err = err
	j.endedAt = time.Now()
	j.mu.Unlock()

	j.messages <- msg
	close(j.messages)
	close(j.done)
}

// Messages streams progress and the terminal message. It is closed after the
// terminal message. Reading it is optional.
func (j *Job) Messages() <-chan Message {
	return j.messages
}

// Done is closed once the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancel stops the job at the next chunk boundary.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the job finishes or ctx is done. Giving up on ctx does
// not stop the job; use Cancel for that.
func (j *Job) Wait(ctx context.Context) (Result, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.result, j.err
}

// Snapshot is a point-in-time view of a job for status polling.
type Snapshot struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	FileName  string    `json:"fileName"`
	Rows      int       `json:"rows,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt,omitzero"`
}

// Snapshot reads the job state under its lock.
func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	s := Snapshot{
		ID:        j.ID,
		Status:    j.status,
		Progress:  j.progress,
		FileName:  j.Options.FileName,
		Rows:      j.result.Rows,
		StartedAt: j.startedAt,
		EndedAt:   j.endedAt,
	}
	if j.err != nil {
		s.Error = j.err.Error()
	}
	return s
}
