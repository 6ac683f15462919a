package verify

import (
	"context"
	"math/big"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pavcheck/internal/cert"
)

// Job is one certificate to verify in a batch run.
type Job struct {
	Key    string
	Record *cert.Record
}

// Result is the outcome for one job. Err is nil on success; certificate
// failures (sign, bound, value mismatch) are carried here rather than
// aborting the run.
type Result struct {
	Key   string
	Value *big.Rat
	Err   error
}

// Report summarizes a batch run.
type Report struct {
	RunID   string
	Results []Result
	Failed  int
}

// Runner verifies batches of independent certificates on a bounded worker
// pool. Certificates never share state, so each failure is isolated to its
// own key: siblings keep running and the report lists every failing case.
type Runner struct {
	Workers int // <= 0 means GOMAXPROCS
	Log     *zap.Logger
}

// Run verifies all jobs and returns a report with one result per job, in job
// order. Only context cancellation stops the run early.
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Report, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	log.Info("batch verification started",
		zap.String("run_id", runID),
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", workers))

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := CheckRecord(job.Record)
			results[i] = Result{Key: job.Key, Value: value, Err: err}
			if err != nil {
				log.Warn("certificate rejected",
					zap.String("run_id", runID),
					zap.String("key", job.Key),
					zap.Error(err))
			} else {
				log.Debug("certificate verified",
					zap.String("run_id", runID),
					zap.String("key", job.Key),
					zap.String("value", value.RatString()))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{RunID: runID, Results: results}
	for _, res := range results {
		if res.Err != nil {
			report.Failed++
		}
	}
	log.Info("batch verification finished",
		zap.String("run_id", runID),
		zap.Int("failed", report.Failed),
		zap.Int("total", len(results)))
	return report, nil
}
