package normalize

import (
	"encoding/json"
	"strings"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

var (
	userID    = chain{key("id"), key("_id")}
	userName  = chain{key("name"), key("Name")}
	userEmail = chain{key("email"), key("Email")}
	userRole  = chain{key("role"), key("Role")}
)

// User normalizes the login payload's user record. The backend reports
// roles in mixed case; canonical roles are lowercase.
func User(raw map[string]any) api.User {
	return api.User{
		ID:    userID.str(raw),
		Name:  userName.str(raw),
		Email: userEmail.str(raw),
		Role:  api.Role(strings.ToLower(userRole.str(raw))),
	}
}

var (
	resumeID       = chain{key("id"), key("_id")}
	resumeFileName = chain{key("fileName"), key("file_name"), key("filename"), key("originalName"), key("name")}
	resumeFileSize = chain{key("fileSize"), key("file_size"), key("size")}
	resumeUploaded = chain{key("uploadedAt"), key("uploaded_at"), key("createdAt"), key("created_at")}
	resumeJobTitle = chain{key("jobTitle"), key("job_title")}
)

func Resume(raw map[string]any) api.Resume {
	if raw == nil {
		return api.Resume{}
	}
	var size int64
	for _, ex := range resumeFileSize {
		if v, ok := ex(raw); ok {
			size = int64(asInt(v))
			break
		}
	}
	return api.Resume{
		ID:         resumeID.str(raw),
		FileName:   resumeFileName.str(raw),
		FileSize:   size,
		UploadedAt: resumeUploaded.str(raw),
		JobTitle:   resumeJobTitle.str(raw),
	}
}

// Resumes normalizes a batch, discarding records without an id.
func Resumes(data json.RawMessage) []api.Resume {
	var rawResumes []map[string]any
	if err := json.Unmarshal(data, &rawResumes); err != nil {
		return []api.Resume{}
	}
	resumes := make([]api.Resume, 0, len(rawResumes))
	for _, raw := range rawResumes {
		resume := Resume(raw)
		if resume.ID == "" {
			continue
		}
		resumes = append(resumes, resume)
	}
	return resumes
}
