package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		logLevel    string
		environment string
		wantLevel   logrus.Level
		wantJSON    bool
	}{
		{
			name:        "debug level in development",
			logLevel:    "debug",
			environment: "development",
			wantLevel:   logrus.DebugLevel,
			wantJSON:    false,
		},
		{
			name:        "info level in production uses JSON",
			logLevel:    "info",
			environment: "production",
			wantLevel:   logrus.InfoLevel,
			wantJSON:    true,
		},
		{
			name:        "invalid level defaults to info",
			logLevel:    "bogus",
			environment: "development",
			wantLevel:   logrus.InfoLevel,
			wantJSON:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.logLevel, tt.environment)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())

			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestAnalysisLoggerFields(t *testing.T) {
	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	al := NewAnalysisLogger(base).ForRequest("req-1")
	al.LogFixtureRequest("Arsenal", "Chelsea", "EPL", "2024", 5)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "analysis", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "Arsenal", entry["home_team"])
	assert.Equal(t, "Chelsea", entry["away_team"])
	assert.Equal(t, float64(5), entry["history_limit"])
}

func TestAnalysisLoggerDegradedWarns(t *testing.T) {
	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	al := NewAnalysisLogger(base).ForRequest("req-2")
	al.LogSummarizerDegraded("12345", "empty response")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "12345", entry["match_id"])
	assert.Equal(t, "empty response", entry["reason"])
}
