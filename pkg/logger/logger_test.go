package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/pkg/logger"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "resumekit-api").
		WithComponent("processing").
		WithAccountID("acc-1").
		WithError(errors.New("upload failed"))

	log.Warn().Str("object_key", "acc-1/t-1/cv.pdf").Msg("compensating delete failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "resumekit-api", entry["service"])
	assert.Equal(t, "processing", entry["component"])
	assert.Equal(t, "acc-1", entry["account_id"])
	assert.Equal(t, "upload failed", entry["error"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "compensating delete failed", entry["message"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().WithRequestID("r").Info().Msg("discarded")
	})
}
