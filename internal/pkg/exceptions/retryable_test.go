package exceptions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	t.Run("Marked Error Through Custom Error", func(t *testing.T) {
		err := ErrSendHTTPRequest(MarkRetryable(errors.New("connection refused")))

		assert.True(t, IsRetryable(err))
		assert.Equal(t, 502, StatusCodeOf(err))
	})

	t.Run("Unmarked Error", func(t *testing.T) {
		err := ErrInferenceMissingResult(nil, "Bowel sounds identified, total count")

		assert.False(t, IsRetryable(err))
	})

	t.Run("Nil Marks Sentinel", func(t *testing.T) {
		assert.True(t, IsRetryable(MarkRetryable(nil)))
	})
}

func TestBuildNewCustomError(t *testing.T) {
	t.Run("Wraps Plain Error", func(t *testing.T) {
		inner := errors.New("duplicate key")
		err := ErrPostgresDBInsertData(inner)

		assert.Equal(t, 500, err.StatusCode)
		assert.ErrorIs(t, err, inner)
		assert.Contains(t, err.DevMessage, "duplicate key")
		assert.Len(t, err.Locations, 1)
	})

	t.Run("Keeps Innermost Custom Error", func(t *testing.T) {
		inner := ErrRecordingNotAssigned(nil)
		outer := ErrPostgresDBUpdateData(inner)

		assert.Equal(t, 400, outer.StatusCode)
		assert.Len(t, outer.Locations, 2)
	})
}
