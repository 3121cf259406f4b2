package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/1F47E/go-scrollreel/pkg/job"
	"github.com/1F47E/go-scrollreel/pkg/logger"
)

var log = logger.Log

// ConvertFunc converts a single file.
type ConvertFunc func(ctx context.Context, j job.JobConv) job.JobConvRes

type Worker struct {
	ctx     context.Context
	convert ConvertFunc
}

func NewWorker(ctx context.Context, convert ConvertFunc) *Worker {
	return &Worker{
		ctx:     ctx,
		convert: convert,
	}
}

// WorkerConvert takes jobs until the channel is closed or the context is
// done and sends one result per job.
func (w *Worker) WorkerConvert(i int, jobs <-chan job.JobConv, res chan<- job.JobConvRes) {
	name := fmt.Sprintf("WorkerConvert #%d", i)
	log.Debugf("%s started", name)
	defer log.Debugf("%s finished", name)

	for {
		select {
		case <-w.ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			log.Debugf("%s got job %s", name, j.Print())

			now := time.Now()
			r := w.convert(w.ctx, j)
			log.Debugf("%s done %s. Took time: %s", name, r.Print(), time.Since(now))

			select {
			case res <- r:
			case <-w.ctx.Done():
				return
			}
		}
	}
}
