package export

import (
	"context"
	"sync"
	"time"

	"Mansoor88-6/time-tracker/internal/ttlcache"

	"go.uber.org/zap"
)

// Jobs keeps recent background exports addressable by id so clients can
// poll progress and fetch the file once it is ready. Running jobs are always
// addressable; finished jobs are kept for the TTL counted from completion.
type Jobs struct {
	pipeline *Pipeline
	finished *ttlcache.Cache[string, *Job]
	logger   *zap.Logger

	mu      sync.RWMutex
	running map[string]*Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJobs creates a registry whose finished jobs expire after ttl.
func NewJobs(pipeline *Pipeline, ttl time.Duration, logger *zap.Logger) *Jobs {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Jobs{
		pipeline: pipeline,
		finished: ttlcache.New[string, *Job](ttl, min(ttl, time.Minute), logger),
		logger:   logger,
		running:  make(map[string]*Job),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit starts an export that outlives the calling request.
func (j *Jobs) Submit(data []Record, opts Options) *Job {
	job := j.pipeline.Start(j.ctx, data, opts)

	j.mu.Lock()
	j.running[job.ID] = job
	j.mu.Unlock()

	j.wg.Add(1)
	go j.retire(job)

	j.logger.Info("Export job submitted",
		zap.String("job_id", job.ID),
		zap.Int("rows", len(data)),
	)
	return job
}

// retire moves job to the finished set once it is done, which starts its TTL.
func (j *Jobs) retire(job *Job) {
	defer j.wg.Done()
	<-job.Done()

	j.finished.Set(job.ID, job)
	j.mu.Lock()
	delete(j.running, job.ID)
	j.mu.Unlock()
}

// Get returns a running job or a finished one that has not expired.
func (j *Jobs) Get(id string) (*Job, bool) {
	j.mu.RLock()
	job, ok := j.running[id]
	j.mu.RUnlock()
	if ok {
		return job, true
	}
	return j.finished.Get(id)
}

// Stop cancels running exports, waits for them to finish and stops the
// expiry loop.
func (j *Jobs) Stop() {
	j.cancel()
	j.wg.Wait()
	j.finished.Stop()
}
