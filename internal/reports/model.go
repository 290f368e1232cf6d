package reports

import "time"

const (
	ReportSubmissions = "submissions"
	ReportBusinesses  = "businesses"

	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"

	DateRangeAll     = "all"
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"

	timeLayout = "2006-01-02 15:04:05"
)

// Request selects the rows of a report. Zero Start/End means no date bound.
type Request struct {
	Status string
	Start  time.Time
	End    time.Time
	Format string
}

type SubmissionRow struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	CategoryName    string     `json:"category"`
	ZoneName        string     `json:"zone"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      string     `json:"reviewed_by"`
	RejectionReason string     `json:"rejection_reason"`
}

type BusinessRow struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	CategoryName  string     `json:"category"`
	ZoneName      string     `json:"zone"`
	PlanName      string     `json:"plan"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`
	IsActive      bool       `json:"is_active"`
	IsVerified    bool       `json:"is_verified"`
	Featured      bool       `json:"featured"`
	CreatedAt     time.Time  `json:"created_at"`
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
