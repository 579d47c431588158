package normalize

import (
	"encoding/json"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

var (
	appID    = chain{key("id"), key("_id")}
	appJobID = chain{
		key("jobId"), key("job_id"), key("JobId"),
		nested("Job", "id"), nested("job", "id"),
	}
	appUserID = chain{
		key("userId"), key("user_id"), key("UserId"),
		nested("User", "id"), nested("user", "id"),
	}
	appUserName = chain{
		key("userName"), key("user_name"), key("name"),
		nested("User", "name"), nested("user", "name"), nested("User", "Name"),
	}
	appUserEmail = chain{
		key("userEmail"), key("user_email"), key("email"),
		nested("User", "email"), nested("user", "email"), nested("User", "Email"),
	}
	appAppliedAt = chain{
		key("appliedAt"), key("applied_at"),
		key("createdAt"), key("created_at"),
		key("applied"), key("created"),
	}
	appJobTitle = chain{
		key("jobTitle"), key("job_title"),
		nested("Job", "title"), nested("job", "title"),
		nested("Job", "Title"), nested("job", "Title"),
	}
)

// Application converts an arbitrary payload into the canonical application
// shape. Status defaults to pending when absent.
func Application(raw map[string]any) api.JobApplication {
	if raw == nil {
		return api.JobApplication{Status: api.ApplicationStatusPending}
	}

	status := api.ApplicationStatus(chain{key("status")}.str(raw))
	if status == "" {
		status = api.ApplicationStatusPending
	}

	return api.JobApplication{
		ID:        appID.str(raw),
		JobID:     appJobID.str(raw),
		UserID:    appUserID.str(raw),
		UserName:  appUserName.str(raw),
		UserEmail: appUserEmail.str(raw),
		AppliedAt: appAppliedAt.str(raw),
		JobTitle:  appJobTitle.str(raw),
		Status:    status,
	}
}

// Applications normalizes a batch, discarding records without an id.
func Applications(data json.RawMessage) []api.JobApplication {
	var rawApps []map[string]any
	if err := json.Unmarshal(data, &rawApps); err != nil {
		return []api.JobApplication{}
	}
	apps := make([]api.JobApplication, 0, len(rawApps))
	for _, raw := range rawApps {
		app := Application(raw)
		if app.ID == "" {
			continue
		}
		apps = append(apps, app)
	}
	return apps
}
