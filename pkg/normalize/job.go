package normalize

import (
	"encoding/json"
	"time"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

// Field resolution order per field. The backend has gone through several
// naming conventions; every shape seen in the wild is listed here.
var (
	jobID          = chain{key("id"), key("_id")}
	jobTitle       = chain{key("title"), key("Title")}
	jobDescription = chain{key("description"), key("Description")}
	jobCompany     = chain{key("company"), key("Company"), key("companyName"), key("company_name"), key("posted_by_name")}
	jobLocation    = chain{key("location"), key("Location")}
	jobSalary      = chain{key("salary"), key("Salary")}
	jobExpiryDate  = chain{
		key("expiryDate"), key("expiry_date"),
		key("expiresAt"), key("expires_at"),
		key("expireDate"), key("expire_date"),
		key("endDate"), key("end_date"),
	}
	jobCreatedAt   = chain{key("createdAt"), key("created_at"), key("created"), key("CreatedAt")}
	jobIsActive    = chain{key("isActive"), key("is_active")}
	jobExpiredFlag = chain{key("isExpired"), key("is_expired")}
)

var timeNow = time.Now

// Job converts an arbitrary payload into the canonical job shape. Malformed
// input degrades to zero values; callers filter unusable records via Jobs.
func Job(raw map[string]any) api.Job {
	if raw == nil {
		return api.Job{IsActive: true, ExpiryStatus: api.ExpiryStatusActive}
	}

	expiryDate := jobExpiryDate.str(raw)
	status := jobExpiryStatus(raw, expiryDate)

	isActive := true
	if b, ok := jobIsActive.boolValue(raw); ok {
		isActive = b
	}

	return api.Job{
		ID:           jobID.str(raw),
		Title:        jobTitle.str(raw),
		Description:  jobDescription.str(raw),
		Company:      jobCompany.str(raw),
		Location:     jobLocation.str(raw),
		Salary:       jobSalary.str(raw),
		ExpiryDate:   expiryDate,
		CreatedAt:    jobCreatedAt.str(raw),
		IsActive:     isActive,
		IsExpired:    status == api.ExpiryStatusExpired,
		ExpiryStatus: status,
	}
}

// jobExpiryStatus resolves expiry with a fixed precedence: an explicit
// expiry_status field wins, then the boolean expired flags, then a
// comparison of the expiry timestamp against the current time. Anything
// else is active.
func jobExpiryStatus(raw map[string]any, expiryDate string) api.ExpiryStatus {
	switch (chain{key("expiry_status")}).str(raw) {
	case string(api.ExpiryStatusExpired):
		return api.ExpiryStatusExpired
	case string(api.ExpiryStatusActive):
		return api.ExpiryStatusActive
	}
	if b, ok := jobExpiredFlag.boolValue(raw); ok {
		if b {
			return api.ExpiryStatusExpired
		}
		return api.ExpiryStatusActive
	}
	if t, ok := parseTimestamp(expiryDate); ok && t.Before(timeNow()) {
		return api.ExpiryStatusExpired
	}
	return api.ExpiryStatusActive
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Jobs normalizes a batch. Records lacking both an id and a title are
// discarded; a non-array body yields an empty batch.
func Jobs(data json.RawMessage) []api.Job {
	var rawJobs []map[string]any
	if err := json.Unmarshal(data, &rawJobs); err != nil {
		return []api.Job{}
	}
	jobs := make([]api.Job, 0, len(rawJobs))
	for _, raw := range rawJobs {
		job := Job(raw)
		if job.ID == "" && job.Title == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}
