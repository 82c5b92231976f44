package analysis

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/metrics"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const inferenceBreakerName = "inference"

type inferenceClient struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*models.InferenceOutcome]
	metrics  *metrics.Collector
	log      *zap.Logger
}

// NewInferenceClient posts recordings to the model service. Transport errors
// and 5xx responses are retryable and trip the circuit breaker after
// BreakerMaxFailures consecutive occurrences.
func NewInferenceClient(cfg *config.InternalConfig, collector *metrics.Collector, logger *zap.Logger) contracts.InferenceClient {
	timeout := time.Duration(cfg.Inference.HTTPTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	maxFailures := uint32(5)
	if cfg.Inference.BreakerMaxFailures > 0 {
		maxFailures = uint32(cfg.Inference.BreakerMaxFailures)
	}

	c := &inferenceClient{
		endpoint: strings.TrimRight(cfg.Inference.URL, "/") + constvars.InferenceEndpointSuffix,
		client:   &http.Client{Timeout: timeout},
		metrics:  collector,
		log:      logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[*models.InferenceOutcome](gobreaker.Settings{
		Name:    inferenceBreakerName,
		Timeout: time.Duration(cfg.Inference.BreakerOpenTimeoutInSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !exceptions.IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("inferenceClient breaker state changed",
				zap.String("breaker", name),
				zap.String(constvars.LoggingFromStatusKey, from.String()),
				zap.String(constvars.LoggingToStatusKey, to.String()),
			)
		},
	})
	return c
}

func (c *inferenceClient) Analyze(ctx context.Context, in *contracts.AnalyzeRecordingInput) (*models.InferenceOutcome, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.log.Info("inferenceClient.Analyze called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, in.RecordingID),
		zap.String(constvars.LoggingURLKey, c.endpoint),
	)

	start := time.Now()
	outcome, err := c.breaker.Execute(func() (*models.InferenceOutcome, error) {
		return c.post(ctx, in)
	})
	c.metrics.ObserveInference(inferenceResultLabel(err), time.Since(start))

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.Warn("inferenceClient.Analyze rejected by open breaker",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingRecordingIDKey, in.RecordingID),
		)
		return nil, exceptions.ErrInferenceCircuitOpen(exceptions.MarkRetryable(err))
	}
	if err != nil {
		c.log.Error("inferenceClient.Analyze error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingRecordingIDKey, in.RecordingID),
			zap.Bool("retryable", exceptions.IsRetryable(err)),
			zap.Error(err),
		)
		return nil, err
	}

	c.log.Info("inferenceClient.Analyze succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, in.RecordingID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	return outcome, nil
}

func (c *inferenceClient) post(ctx context.Context, in *contracts.AnalyzeRecordingInput) (*models.InferenceOutcome, error) {
	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		part, err := form.CreateFormFile(constvars.InferenceFormFieldFile, in.FileName)
		if err == nil {
			_, err = io.Copy(part, in.File)
		}
		if err == nil {
			err = form.Close()
		}
		writer.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		body.CloseWithError(err)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, form.FormDataContentType())
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)

	resp, err := c.client.Do(req)
	if err != nil {
		body.CloseWithError(err)
		return nil, exceptions.ErrSendHTTPRequest(exceptions.MarkRetryable(err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(exceptions.MarkRetryable(err))
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, exceptions.ErrInferenceUnexpectedStatus(exceptions.MarkRetryable(nil), resp.StatusCode)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, exceptions.ErrInferenceUnexpectedStatus(nil, resp.StatusCode)
	}

	result, err := ParseInferenceResponse(payload)
	if err != nil {
		return nil, err
	}
	return &models.InferenceOutcome{Result: *result}, nil
}

func inferenceResultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case exceptions.IsRetryable(err):
		return "retryable_error"
	}
	return "error"
}

type mockInferenceClient struct {
	log *zap.Logger
}

// NewMockInferenceClient returns fixed statistics without calling the model,
// for environments where the model service is not deployed.
func NewMockInferenceClient(logger *zap.Logger) contracts.InferenceClient {
	return &mockInferenceClient{log: logger}
}

func (c *mockInferenceClient) Analyze(ctx context.Context, in *contracts.AnalyzeRecordingInput) (*models.InferenceOutcome, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.log.Info("mockInferenceClient.Analyze called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, in.RecordingID),
	)
	return &models.InferenceOutcome{Result: *MockAnalysisResult(), UsedMock: true}, nil
}
