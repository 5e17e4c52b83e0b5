package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

func TestSubjectEncodesCounters(t *testing.T) {
	subject := Subject(telemetry.Stats{Clicks: 5, Types: 2, Errors: 0})
	assert.Equal(t, "[postwatch] OK+ | 5 clicks, 2 inputs, 0 errors", subject)
}

func TestSubjectNeverSuccessForErroredNoOpRun(t *testing.T) {
	// clicks=0, types=0, errors=1 must not read as a success.
	subject := Subject(telemetry.Stats{Errors: 1})

	assert.Contains(t, subject, "WARN")
	assert.Contains(t, subject, "0 clicks, 0 inputs, 1 errors")
	assert.NotContains(t, subject, "OK")
}

func TestBodyContainsTelemetryAndResult(t *testing.T) {
	body := Body(telemetry.Stats{Clicks: 1}, "Found 2 posts.")

	assert.Contains(t, body, "TELEMETRY")
	assert.Contains(t, body, "Clicks: 1")
	assert.Contains(t, body, "RESULT:\nFound 2 posts.")
}

func TestNewValidation(t *testing.T) {
	_, err := New("", 465, "user@example.com", "pw", "to@example.com")
	assert.Error(t, err)

	_, err = New("smtp.example.com", 465, "", "pw", "to@example.com")
	assert.Error(t, err)

	m, err := New("smtp.example.com", 465, "user@example.com", "pw", "to@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, m)
}
