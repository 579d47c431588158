package api

type ExpiryStatus string

const (
	ExpiryStatusActive  ExpiryStatus = "active"
	ExpiryStatusExpired ExpiryStatus = "expired"
)

// Job is the canonical shape of a job posting after normalization.
// Timestamps are kept as the backend's string representation; the client
// never reformats them.
type Job struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Company      string       `json:"company"`
	Location     string       `json:"location"`
	Salary       string       `json:"salary,omitempty"`
	ExpiryDate   string       `json:"expiryDate"`
	CreatedAt    string       `json:"createdAt"`
	IsActive     bool         `json:"isActive"`
	IsExpired    bool         `json:"isExpired"`
	ExpiryStatus ExpiryStatus `json:"expiry_status,omitempty"`
}

// Expired reports the derived expiry of the job. ExpiryStatus is
// authoritative over the boolean flag whenever both disagree.
func (j Job) Expired() bool {
	if j.ExpiryStatus != "" {
		return j.ExpiryStatus == ExpiryStatusExpired
	}
	return j.IsExpired
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusRejected ApplicationStatus = "rejected"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
)

type JobApplication struct {
	ID        string            `json:"id"`
	JobID     string            `json:"jobId"`
	UserID    string            `json:"userId"`
	UserName  string            `json:"userName"`
	UserEmail string            `json:"userEmail"`
	AppliedAt string            `json:"appliedAt"`
	JobTitle  string            `json:"jobTitle"`
	Status    ApplicationStatus `json:"status"`
}

type Resume struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	UploadedAt string `json:"uploadedAt"`
	JobTitle   string `json:"jobTitle,omitempty"`
}

type DashboardStats struct {
	TotalJobs         int `json:"totalJobs"`
	TotalApplications int `json:"totalApplications"`
	ExpiredJobs       int `json:"expiredJobs"`
	TotalResumes      int `json:"totalResumes"`
}

type Role string

const (
	RoleHR   Role = "hr"
	RoleUser Role = "user"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary,omitempty"`
	ExpiryDate  string `json:"expiryDate"`
}
