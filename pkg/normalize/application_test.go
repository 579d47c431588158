package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

func TestApplicationStatusDefaultsToPending(t *testing.T) {
	app := Application(map[string]any{"id": "1"})
	assert.Equal(t, api.ApplicationStatusPending, app.Status)

	app = Application(map[string]any{"id": "1", "status": "accepted"})
	assert.Equal(t, api.ApplicationStatusAccepted, app.Status)
}

func TestApplicationNestedJobAndUser(t *testing.T) {
	app := Application(map[string]any{
		"id": 3.0,
		"Job": map[string]any{
			"id":    "j1",
			"title": "Backend Engineer",
		},
		"User": map[string]any{
			"id":    9.0,
			"name":  "Dana",
			"email": "dana@example.com",
		},
		"created_at": "2024-02-02T10:00:00Z",
	})
	assert.Equal(t, "3", app.ID)
	assert.Equal(t, "j1", app.JobID)
	assert.Equal(t, "Backend Engineer", app.JobTitle)
	assert.Equal(t, "9", app.UserID)
	assert.Equal(t, "Dana", app.UserName)
	assert.Equal(t, "dana@example.com", app.UserEmail)
	assert.Equal(t, "2024-02-02T10:00:00Z", app.AppliedAt)
}

func TestApplicationFlatSnakeCase(t *testing.T) {
	app := Application(map[string]any{
		"id":         "5",
		"job_id":     "j2",
		"user_id":    "u2",
		"user_name":  "Omar",
		"user_email": "omar@example.com",
		"applied_at": "2024-03-03",
		"job_title":  "Designer",
	})
	assert.Equal(t, "j2", app.JobID)
	assert.Equal(t, "u2", app.UserID)
	assert.Equal(t, "Omar", app.UserName)
	assert.Equal(t, "omar@example.com", app.UserEmail)
	assert.Equal(t, "2024-03-03", app.AppliedAt)
	assert.Equal(t, "Designer", app.JobTitle)
}

func TestApplicationMissingJobTitleStaysEmpty(t *testing.T) {
	app := Application(map[string]any{"id": "1", "jobId": "j9"})
	assert.Empty(t, app.JobTitle)
}

func TestApplicationsDiscardsRecordsWithoutID(t *testing.T) {
	apps := Applications(json.RawMessage(`[
		{"user_name":"ghost"},
		{"id":"1","user_name":"real"}
	]`))
	require.Len(t, apps, 1)
	assert.Equal(t, "1", apps[0].ID)
}

func TestApplicationsToleratesNonArrayBody(t *testing.T) {
	assert.Empty(t, Applications(json.RawMessage(`{"data":"nope"}`)))
	assert.Empty(t, Applications(nil))
}
