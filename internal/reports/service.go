package reports

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/submission"
)

type Service struct {
	repo  Repository
	audit auditlog.Service
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(repo Repository, audit auditlog.Service, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		audit: audit,
		log:   log.With().Str("component", "reports").Logger(),
		now:   time.Now,
	}
}

func (s *Service) Submissions(ctx context.Context, req Request) ([]SubmissionRow, error) {
	if req.Status != "" && !submission.IsValidStatus(req.Status) {
		return nil, apperr.Validation("unknown status %q", req.Status)
	}
	rows, err := s.repo.Submissions(ctx, req)
	if err != nil {
		return nil, apperr.Store("submission report", err)
	}
	if rows == nil {
		rows = []SubmissionRow{}
	}
	return rows, nil
}

func (s *Service) Businesses(ctx context.Context, req Request) ([]BusinessRow, error) {
	if req.Status != "" && req.Status != "active" && req.Status != "inactive" {
		return nil, apperr.Validation("status must be active or inactive")
	}
	rows, err := s.repo.Businesses(ctx, req)
	if err != nil {
		return nil, apperr.Store("business report", err)
	}
	if rows == nil {
		rows = []BusinessRow{}
	}
	return rows, nil
}

// Export renders a report as a CSV, Excel or PDF file and records the
// download in the audit trail.
func (s *Service) Export(ctx context.Context, report string, req Request, actor, ip string) (*File, error) {
	if req.Format == "" || req.Format == FormatJSON || !IsValidFormat(req.Format) {
		return nil, apperr.Validation("format must be csv, excel or pdf")
	}

	var t table
	switch report {
	case ReportSubmissions:
		rows, err := s.Submissions(ctx, req)
		if err != nil {
			return nil, err
		}
		t = submissionTable(rows)
	case ReportBusinesses:
		rows, err := s.Businesses(ctx, req)
		if err != nil {
			return nil, err
		}
		t = businessTable(rows)
	default:
		return nil, apperr.Validation("unknown report %q", report)
	}

	details := map[string]interface{}{
		"report": report,
		"format": req.Format,
		"status": req.Status,
		"rows":   len(t.rows),
	}
	file, err := export(report, req.Format, t, s.now())
	if err != nil {
		details["error"] = err.Error()
		_ = s.audit.LogAction(ctx, actor, "report", nil, "REPORT_EXPORTED", details, ip, auditlog.StatusFailure)
		s.log.Error().Err(err).Str("report", report).Str("format", req.Format).Msg("report export failed")
		return nil, err
	}
	_ = s.audit.LogAction(ctx, actor, "report", nil, "REPORT_EXPORTED", details, ip, auditlog.StatusSuccess)
	return file, nil
}
