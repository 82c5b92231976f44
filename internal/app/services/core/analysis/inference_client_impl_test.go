package analysis

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestInferenceClient(url string, maxFailures int) contracts.InferenceClient {
	cfg := &config.InternalConfig{
		Inference: config.AppInference{
			URL:                     url,
			HTTPTimeoutInSeconds:    5,
			BreakerMaxFailures:      maxFailures,
			BreakerOpenTimeoutInSec: 60,
		},
	}
	return NewInferenceClient(cfg, nil, zap.NewNop())
}

func analyzeInput() *contracts.AnalyzeRecordingInput {
	return &contracts.AnalyzeRecordingInput{
		RecordingID: 4,
		FileName:    "a.wav",
		File:        strings.NewReader("RIFF-data"),
	}
}

func TestInferenceClient_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("Posts Multipart File", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, constvars.InferenceEndpointSuffix, r.URL.Path)

			file, header, err := r.FormFile(constvars.InferenceFormFieldFile)
			if !assert.NoError(t, err) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer file.Close()
			content, _ := io.ReadAll(file)
			assert.Equal(t, "a.wav", header.Filename)
			assert.Equal(t, "RIFF-data", string(content))

			w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
			_, _ = w.Write(inferenceBody(200, "", ""))
		}))
		defer server.Close()

		outcome, err := newTestInferenceClient(server.URL+"/", 3).Analyze(ctx, analyzeInput())
		require.NoError(t, err)
		assert.False(t, outcome.UsedMock)
		assert.Equal(t, int64(321), *outcome.Result.BowellSoundsNumber)
	})

	t.Run("Server Error Is Retryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := newTestInferenceClient(server.URL, 3).Analyze(ctx, analyzeInput())
		require.Error(t, err)
		assert.True(t, exceptions.IsRetryable(err))
	})

	t.Run("Client Error Is Terminal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := newTestInferenceClient(server.URL, 3).Analyze(ctx, analyzeInput())
		require.Error(t, err)
		assert.False(t, exceptions.IsRetryable(err))
	})

	t.Run("Transport Error Is Retryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestInferenceClient(url, 3).Analyze(ctx, analyzeInput())
		require.Error(t, err)
		assert.True(t, exceptions.IsRetryable(err))
	})

	t.Run("Breaker Opens After Consecutive Failures", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestInferenceClient(server.URL, 2)
		for i := 0; i < 2; i++ {
			_, err := client.Analyze(ctx, analyzeInput())
			require.Error(t, err)
		}

		_, err := client.Analyze(ctx, analyzeInput())
		require.Error(t, err)
		assert.True(t, exceptions.IsRetryable(err))
		assert.Equal(t, constvars.StatusServiceUnavailable, exceptions.StatusCodeOf(err))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("Terminal Failures Keep Breaker Closed", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = w.Write(inferenceBody(200, "", "Bowel sounds per minute, total"))
		}))
		defer server.Close()

		client := newTestInferenceClient(server.URL, 1)
		for i := 0; i < 3; i++ {
			_, err := client.Analyze(ctx, analyzeInput())
			require.Error(t, err)
		}
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}

func TestMockInferenceClient_Analyze(t *testing.T) {
	outcome, err := NewMockInferenceClient(zap.NewNop()).Analyze(context.Background(), analyzeInput())
	require.NoError(t, err)
	assert.True(t, outcome.UsedMock)
	assert.Len(t, outcome.Result.ProbabilityPlot, mockFrameCount)
}
