package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

// Unwrap strips the { success, message, data } envelope some backend
// responses carry. Bare payloads, arrays and scalars pass through unchanged.
func Unwrap(body json.RawMessage) json.RawMessage {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return body
	}
	if data, ok := probe["data"]; ok && len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		return data
	}
	return body
}

// Stats coerces a dashboard payload into numeric counters, defaulting every
// missing or non-numeric field to zero.
func Stats(body json.RawMessage) api.DashboardStats {
	var raw map[string]any
	if err := json.Unmarshal(Unwrap(body), &raw); err != nil {
		return api.DashboardStats{}
	}
	return api.DashboardStats{
		TotalJobs:         asInt(raw["totalJobs"]),
		TotalApplications: asInt(raw["totalApplications"]),
		ExpiredJobs:       asInt(raw["expiredJobs"]),
		TotalResumes:      asInt(raw["totalResumes"]),
	}
}
