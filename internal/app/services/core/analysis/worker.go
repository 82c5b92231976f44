package analysis

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker polls the analysis queue and hands every job to the processor.
// Deliveries are acked only after the job was finished, requeued or
// dead-lettered, so a crash redelivers the job.
type Worker struct {
	log       *zap.Logger
	queue     contracts.AnalysisQueue
	processor contracts.AnalysisProcessor
	interval  time.Duration
	batchSize int
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, queue contracts.AnalysisQueue, processor contracts.AnalysisProcessor) *Worker {
	interval := time.Duration(cfg.Analysis.PollIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}
	batchSize := cfg.Analysis.MaxQueue
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Worker{
		log:       log,
		queue:     queue,
		processor: processor,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

// Start begins the polling loop. The returned function stops it and waits
// for the batch in flight.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(w.interval)
	stopped := make(chan struct{})

	w.log.Info("analysis worker started", zap.Duration("interval", w.interval), zap.Int("batch_size", w.batchSize))

	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()

	return func() {
		w.stopOnce.Do(func() { close(w.stop) })
		<-stopped
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	out, err := w.queue.FetchN(ctx, &contracts.FetchAnalysisJobsInput{Max: w.batchSize})
	if err != nil {
		w.log.Warn("analysis.worker queue.FetchN error", zap.Error(err))
		return
	}
	if len(out.Items) == 0 {
		return
	}

	w.log.Info("analysis.worker fetched jobs", zap.Int(constvars.LoggingCountKey, len(out.Items)))
	for _, item := range out.Items {
		select {
		case <-w.stop:
			return
		default:
		}
		w.handle(ctx, item)
	}
}

func (w *Worker) handle(ctx context.Context, item contracts.QueuedAnalysisJob) {
	job := item.Job
	outcome := w.processor.Process(ctx, &job)
	fields := append(jobFields(&job), zap.String("outcome", outcome.String()))

	switch outcome {
	case models.AnalysisJobRetry:
		job.FailedCount++
		fallthrough
	case models.AnalysisJobRequeue:
		if _, err := w.queue.Reenqueue(ctx, &contracts.ReenqueueAnalysisJobInput{Job: job}); err != nil {
			w.log.Error("analysis.worker reenqueue failed, delivery left unacked", append(fields, zap.Error(err))...)
			return
		}
	case models.AnalysisJobDeadLetter:
		job.FailedCount++
		if _, err := w.queue.EnqueueToDeadQueue(ctx, &contracts.EnqueueAnalysisJobToDLQInput{Job: job}); err != nil {
			w.log.Error("analysis.worker enqueue to DLQ failed, delivery left unacked", append(fields, zap.Error(err))...)
			return
		}
	}

	if _, err := w.queue.AckMessage(ctx, &contracts.AckAnalysisJobInput{DeliveryTag: item.DeliveryTag}); err != nil {
		w.log.Error("analysis.worker ack failed", append(fields, zap.Error(err))...)
		return
	}
	w.log.Info("analysis.worker job handled", fields...)
}
