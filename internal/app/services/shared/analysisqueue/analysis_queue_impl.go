package analysisqueue

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Service moves analysis jobs through the work queue and its dead-letter queue.
type Service struct {
	ch             *amqp.Channel
	log            *zap.Logger
	queueName      string
	deadLetterName string
	confirms       chan amqp.Confirmation
	mu             sync.Mutex
}

type Config struct {
	QueueName           string
	DeadLetterQueueName string
	Prefetch            int
}

// NewService declares both durable queues, sets QoS and enables publisher confirms.
func NewService(conn *amqp.Connection, log *zap.Logger, cfg Config) (contracts.AnalysisQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{cfg.QueueName, cfg.DeadLetterQueueName} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return nil, err
		}
	}

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:             ch,
		log:            log,
		queueName:      cfg.QueueName,
		deadLetterName: cfg.DeadLetterQueueName,
		confirms:       ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *Service) Enqueue(ctx context.Context, in *contracts.EnqueueAnalysisJobInput) (*contracts.EnqueueAnalysisJobOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("AnalysisQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, in.Job.AnalysisID),
	)

	if err := s.publishJob(ctx, s.queueName, &in.Job); err != nil {
		return nil, err
	}
	return &contracts.EnqueueAnalysisJobOutput{}, nil
}

// Reenqueue puts the job at the tail of the work queue, carrying its updated failed_count.
func (s *Service) Reenqueue(ctx context.Context, in *contracts.ReenqueueAnalysisJobInput) (*contracts.ReenqueueAnalysisJobOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("AnalysisQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, in.Job.AnalysisID),
		zap.Int(constvars.LoggingFailedCountKey, in.Job.FailedCount),
	)

	if err := s.publishJob(ctx, s.queueName, &in.Job); err != nil {
		return nil, err
	}
	return &contracts.ReenqueueAnalysisJobOutput{}, nil
}

func (s *Service) EnqueueToDeadQueue(ctx context.Context, in *contracts.EnqueueAnalysisJobToDLQInput) (*contracts.EnqueueAnalysisJobToDLQOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Warn("AnalysisQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, in.Job.AnalysisID),
		zap.Int(constvars.LoggingFailedCountKey, in.Job.FailedCount),
	)

	if err := s.publishJob(ctx, s.deadLetterName, &in.Job); err != nil {
		return nil, err
	}
	return &contracts.EnqueueAnalysisJobToDLQOutput{}, nil
}

// FetchN pulls up to Max deliveries with basic.get and manual ack. Payloads
// that cannot be decoded are moved to the dead-letter queue.
func (s *Service) FetchN(ctx context.Context, in *contracts.FetchAnalysisJobsInput) (*contracts.FetchAnalysisJobsOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Debug("AnalysisQueue.FetchN called", zap.String(constvars.LoggingRequestIDKey, requestID))

	n := in.Max
	if n <= 0 {
		n = 1
	}
	items := make([]contracts.QueuedAnalysisJob, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(s.queueName, false)
		if err != nil {
			return nil, exceptions.ErrRabbitMQFetchMessage(err, s.queueName)
		}
		if !ok {
			break
		}

		var job models.AnalysisJob
		if err := json.Unmarshal(d.Body, &job); err != nil || job.AnalysisID == "" {
			s.log.Error("AnalysisQueue.FetchN poison message moved to dead-letter queue",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			_ = d.Ack(false)
			_ = s.publish(ctx, s.deadLetterName, d.Body)
			continue
		}
		items = append(items, contracts.QueuedAnalysisJob{DeliveryTag: d.DeliveryTag, Job: job})
	}

	if len(items) > 0 {
		s.log.Info("AnalysisQueue.FetchN succeeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingCountKey, len(items)),
		)
	}
	return &contracts.FetchAnalysisJobsOutput{Items: items}, nil
}

func (s *Service) AckMessage(ctx context.Context, in *contracts.AckAnalysisJobInput) (*contracts.AckAnalysisJobOutput, error) {
	if err := s.ch.Ack(in.DeliveryTag, false); err != nil {
		return nil, exceptions.ErrRabbitMQAckMessage(err)
	}
	return &contracts.AckAnalysisJobOutput{}, nil
}

func (s *Service) publishJob(ctx context.Context, queue string, job *models.AnalysisJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publish(ctx, queue, body)
}

// publish sends a persistent message and waits for the broker confirm.
func (s *Service) publish(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
