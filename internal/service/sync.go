package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/pkg/observability"
	"github.com/staffhours/backend/internal/pkg/workday"
	"github.com/staffhours/backend/internal/repo"
)

type SyncResult struct {
	RunID      string
	Window     *model.SyncWindow
	Projects   int
	Users      int
	Activities int
	Pages      int
}

// Sync pulls projects, users and activities of a window from Hubstaff into the local store.
type Sync struct {
	hubstaff     *Hubstaff
	schemaRepo   *repo.Schema
	activityRepo *repo.Activity
	projectRepo  *repo.Project
	userRepo     *repo.User
	location     *time.Location

	// Clock resolves "yesterday" when no window is given.
	Clock func() time.Time
}

func NewSync(
	conf *appconfig.Config,
	hubstaff *Hubstaff,
	schemaRepo *repo.Schema,
	activityRepo *repo.Activity,
	projectRepo *repo.Project,
	userRepo *repo.User,
) *Sync {
	return &Sync{
		hubstaff:     hubstaff,
		schemaRepo:   schemaRepo,
		activityRepo: activityRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		location:     conf.Location,
		Clock:        time.Now,
	}
}

// ResolveWindow turns optional bounds into a window. With neither bound it is
// yesterday in the configured location; a single bound is rejected.
func (s *Sync) ResolveWindow(organizationID int64, start, end *time.Time) (*model.SyncWindow, error) {
	switch {
	case start == nil && end == nil:
		yesterday := workday.Yesterday(s.Clock(), s.location)
		return model.NewSyncWindow(organizationID, yesterday, yesterday)
	case start == nil:
		return nil, apperr.ErrInvalidWindow.Msg("invalid date window: end given without start")
	case end == nil:
		return nil, apperr.ErrInvalidWindow.Msg("invalid date window: start given without end")
	}
	return model.NewSyncWindow(organizationID, *start, *end)
}

// Run validates the window before anything touches the network, then syncs it.
func (s *Sync) Run(ctx context.Context, organizationID int64, start, end *time.Time) (*SyncResult, error) {
	window, err := s.ResolveWindow(organizationID, start, end)
	if err != nil {
		return nil, err
	}
	return s.RunWindow(ctx, window)
}

func (s *Sync) RunWindow(ctx context.Context, window *model.SyncWindow) (*SyncResult, error) {
	result := &SyncResult{
		RunID:  xid.New().String(),
		Window: window,
	}
	logger := log.With().
		Str("runId", result.RunID).
		Int64("organizationId", window.OrganizationID).
		Str("window", window.String()).
		Logger()
	ctx = logger.WithContext(ctx)

	if err := s.schemaRepo.EnsureInstalled(ctx); err != nil {
		return nil, apperr.StoreIO(err, "failed to read schema version")
	}

	started := time.Now()
	logger.Info().Msg("sync started")

	var (
		pages int
		err   error
	)

	result.Projects, pages, err = syncPages(ctx, ResourceProjects, s.hubstaff.FetchProjects(window.OrganizationID), s.projectRepo.Upsert)
	result.Pages += pages
	if err != nil {
		return nil, err
	}

	result.Users, pages, err = syncPages(ctx, ResourceUsers, s.hubstaff.FetchUsers(window.OrganizationID), s.userRepo.Upsert)
	result.Pages += pages
	if err != nil {
		return nil, err
	}

	result.Activities, pages, err = syncPages(ctx, ResourceActivities, s.hubstaff.FetchActivities(window), s.activityRepo.Upsert)
	result.Pages += pages
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("projects", result.Projects).
		Int("users", result.Users).
		Int("activities", result.Activities).
		Int("pages", result.Pages).
		Dur("took", time.Since(started)).
		Msg("sync finished")

	return result, nil
}

// syncPages stores every page of pager as soon as it arrives, one transaction per page.
func syncPages[T any](ctx context.Context, resource string, pager *Pager[T], upsert func(context.Context, []*T) (int, error)) (written, pages int, err error) {
	timer := prometheus.NewTimer(observability.SyncDuration.WithLabelValues(resource))
	defer timer.ObserveDuration()

	for pager.Next(ctx) {
		pages++
		observability.SyncPages.WithLabelValues(resource).Inc()

		n, err := upsert(ctx, pager.Page())
		if err != nil {
			return written, pages, apperr.StoreIO(err, "failed to store %s page %d", resource, pages)
		}
		written += n
		observability.SyncRecords.WithLabelValues(resource).Add(float64(n))

		log.Ctx(ctx).Debug().
			Str("resource", resource).
			Int("page", pages).
			Int("received", len(pager.Page())).
			Int("written", n).
			Msg("page stored")
	}
	if err := pager.Err(); err != nil {
		return written, pages, err
	}

	return written, pages, nil
}
