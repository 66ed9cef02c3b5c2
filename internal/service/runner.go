package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/repo"
)

type RunMode int

const (
	// FetchAndReport syncs the window from Hubstaff, then builds the report.
	FetchAndReport RunMode = iota
	// ReportOnly builds the report from what is already stored.
	ReportOnly
)

func (m RunMode) String() string {
	switch m {
	case FetchAndReport:
		return "fetch-and-report"
	case ReportOnly:
		return "report-only"
	default:
		return "unknown"
	}
}

type RunRequest struct {
	Mode           RunMode
	OrganizationID int64
	// Start and End are both set or both nil; nil means yesterday.
	Start *time.Time
	End   *time.Time
}

// Runner is the single entry point of a command line invocation.
type Runner struct {
	sync       *Sync
	report     *Report
	schemaRepo *repo.Schema
}

func NewRunner(sync *Sync, report *Report, schemaRepo *repo.Schema) *Runner {
	return &Runner{
		sync:       sync,
		report:     report,
		schemaRepo: schemaRepo,
	}
}

func (r *Runner) Execute(ctx context.Context, req RunRequest) (*model.PivotTable, error) {
	if req.OrganizationID <= 0 {
		return nil, apperr.ErrInvalidArgument.Msg("organization id must be a positive integer, got %d", req.OrganizationID)
	}

	window, err := r.sync.ResolveWindow(req.OrganizationID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("mode", req.Mode.String()).
		Int64("organizationId", req.OrganizationID).
		Str("window", window.String()).
		Msg("run started")

	switch req.Mode {
	case FetchAndReport:
		if _, err := r.sync.RunWindow(ctx, window); err != nil {
			return nil, err
		}
	case ReportOnly:
		if err := r.schemaRepo.EnsureInstalled(ctx); err != nil {
			return nil, apperr.StoreIO(err, "failed to read schema version")
		}
	default:
		return nil, apperr.ErrInvalidArgument.Msg("unknown run mode %d", int(req.Mode))
	}

	return r.report.BuildWindow(ctx, window)
}
