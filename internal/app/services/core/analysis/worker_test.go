package analysis

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestWorker() (*Worker, *mocks.AnalysisQueue, *mocks.AnalysisProcessor) {
	queue := new(mocks.AnalysisQueue)
	processor := new(mocks.AnalysisProcessor)
	cfg := &config.InternalConfig{Analysis: config.AppAnalysis{MaxQueue: 2, PollIntervalInSeconds: 1}}
	return NewWorker(zap.NewNop(), cfg, queue, processor), queue, processor
}

func queuedJob(tag uint64, failedCount int) contracts.QueuedAnalysisJob {
	return contracts.QueuedAnalysisJob{DeliveryTag: tag, Job: *newJob(failedCount)}
}

func TestWorker_Handle(t *testing.T) {
	ctx := context.Background()
	ack := func(tag uint64) interface{} {
		return mock.MatchedBy(func(in *contracts.AckAnalysisJobInput) bool { return in.DeliveryTag == tag })
	}

	t.Run("Done Acks", func(t *testing.T) {
		w, queue, processor := newTestWorker()
		processor.On("Process", ctx, mock.Anything).Return(models.AnalysisJobDone)
		queue.On("AckMessage", ctx, ack(7)).Return(&contracts.AckAnalysisJobOutput{}, nil)

		w.handle(ctx, queuedJob(7, 0))
		queue.AssertExpectations(t)
		queue.AssertNotCalled(t, "Reenqueue", mock.Anything, mock.Anything)
	})

	t.Run("Retry Increments Failed Count", func(t *testing.T) {
		w, queue, processor := newTestWorker()
		processor.On("Process", ctx, mock.Anything).Return(models.AnalysisJobRetry)
		queue.On("Reenqueue", ctx, mock.MatchedBy(func(in *contracts.ReenqueueAnalysisJobInput) bool {
			return in.Job.FailedCount == 2
		})).Return(&contracts.ReenqueueAnalysisJobOutput{}, nil)
		queue.On("AckMessage", ctx, ack(7)).Return(&contracts.AckAnalysisJobOutput{}, nil)

		w.handle(ctx, queuedJob(7, 1))
		queue.AssertExpectations(t)
	})

	t.Run("Requeue Keeps Failed Count", func(t *testing.T) {
		w, queue, processor := newTestWorker()
		processor.On("Process", ctx, mock.Anything).Return(models.AnalysisJobRequeue)
		queue.On("Reenqueue", ctx, mock.MatchedBy(func(in *contracts.ReenqueueAnalysisJobInput) bool {
			return in.Job.FailedCount == 1
		})).Return(&contracts.ReenqueueAnalysisJobOutput{}, nil)
		queue.On("AckMessage", ctx, ack(7)).Return(&contracts.AckAnalysisJobOutput{}, nil)

		w.handle(ctx, queuedJob(7, 1))
		queue.AssertExpectations(t)
	})

	t.Run("Dead Letter", func(t *testing.T) {
		w, queue, processor := newTestWorker()
		processor.On("Process", ctx, mock.Anything).Return(models.AnalysisJobDeadLetter)
		queue.On("EnqueueToDeadQueue", ctx, mock.MatchedBy(func(in *contracts.EnqueueAnalysisJobToDLQInput) bool {
			return in.Job.FailedCount == 3
		})).Return(&contracts.EnqueueAnalysisJobToDLQOutput{}, nil)
		queue.On("AckMessage", ctx, ack(7)).Return(&contracts.AckAnalysisJobOutput{}, nil)

		w.handle(ctx, queuedJob(7, 2))
		queue.AssertExpectations(t)
	})

	t.Run("Failed Reenqueue Leaves Delivery Unacked", func(t *testing.T) {
		w, queue, processor := newTestWorker()
		processor.On("Process", ctx, mock.Anything).Return(models.AnalysisJobRetry)
		queue.On("Reenqueue", ctx, mock.Anything).Return(nil, errors.New("channel closed"))

		w.handle(ctx, queuedJob(7, 0))
		queue.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything)
	})
}

func TestWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	w, queue, processor := newTestWorker()
	queue.On("FetchN", ctx, mock.MatchedBy(func(in *contracts.FetchAnalysisJobsInput) bool { return in.Max == 2 })).
		Return(&contracts.FetchAnalysisJobsOutput{Items: []contracts.QueuedAnalysisJob{queuedJob(1, 0), queuedJob(2, 0)}}, nil)
	processor.On("Process", ctx, mock.Anything).Return(models.AnalysisJobDone)
	queue.On("AckMessage", ctx, mock.Anything).Return(&contracts.AckAnalysisJobOutput{}, nil)

	w.runOnce(ctx)
	processor.AssertNumberOfCalls(t, "Process", 2)
	queue.AssertNumberOfCalls(t, "AckMessage", 2)
}

func TestWorker_StartStop(t *testing.T) {
	w, queue, _ := newTestWorker()
	queue.On("FetchN", mock.Anything, mock.Anything).Return(&contracts.FetchAnalysisJobsOutput{}, nil).Maybe()

	stop := w.Start(context.Background())
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "worker did not stop")
	}
}
