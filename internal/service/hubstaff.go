package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/model/hubstaff"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/pkg/observability"
	"github.com/staffhours/backend/internal/util"
)

const (
	ResourceProjects   = "projects"
	ResourceUsers      = "users"
	ResourceActivities = "activities"
)

var errUnauthorized = errors.New("hubstaff: 401 unauthorized")

// statusError is a non-2xx answer other than 401.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("hubstaff: unexpected status %d: %s", e.StatusCode, e.Body)
}

// isTransient reports whether a failed page request is worth another attempt.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError || se.StatusCode == http.StatusTooManyRequests
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// Hubstaff is the remote fetcher for the Hubstaff v2 API.
type Hubstaff struct {
	client   *http.Client
	tokens   TokenSource
	validate *util.Validator

	baseURL     string
	pageLimit   int
	maxAttempts uint
	backoff     time.Duration
}

func NewHubstaff(conf *appconfig.Config, client *http.Client, tokens TokenSource) *Hubstaff {
	return &Hubstaff{
		client:      client,
		tokens:      tokens,
		validate:    util.NewValidator(),
		baseURL:     strings.TrimSuffix(conf.HubstaffBaseURL, "/"),
		pageLimit:   conf.HubstaffPageLimit,
		maxAttempts: conf.FetchMaxAttempts,
		backoff:     conf.FetchBackoffBase,
	}
}

func organizationPath(organizationID int64, resource string) string {
	return "/v2/organizations/" + strconv.FormatInt(organizationID, 10) + "/" + resource
}

// FetchActivities pages through the daily activities of the window. Records dated
// outside the window or already returned by an earlier page are skipped.
func (s *Hubstaff) FetchActivities(window *model.SyncWindow) *Pager[model.Activity] {
	path := organizationPath(window.OrganizationID, "activities/daily")
	query := url.Values{
		"date[start]": {window.StartDay()},
		"date[stop]":  {window.EndDay()},
	}
	seen := map[int64]struct{}{}

	return newPager(ResourceActivities, func(ctx context.Context, cursor *int64) ([]*model.Activity, *int64, error) {
		page, err := fetchPage[hubstaff.DailyActivitiesPage](ctx, s, ResourceActivities, path, query, cursor)
		if err != nil {
			return nil, nil, err
		}

		activities := make([]*model.Activity, 0, len(page.DailyActivities))
		for _, dto := range page.DailyActivities {
			if !s.valid(ctx, ResourceActivities, dto) {
				continue
			}
			if !window.Includes(dto.Date) {
				continue
			}
			if _, ok := seen[dto.ID]; ok {
				continue
			}
			seen[dto.ID] = struct{}{}

			activity := &model.Activity{}
			if err := copier.Copy(activity, dto); err != nil {
				return nil, nil, errors.Wrapf(err, "failed to convert activity %d", dto.ID)
			}
			activity.OrganizationID = window.OrganizationID
			activities = append(activities, activity)
		}

		return activities, page.Pagination.Next(), nil
	})
}

func (s *Hubstaff) FetchProjects(organizationID int64) *Pager[model.Project] {
	path := organizationPath(organizationID, "projects")

	return newPager(ResourceProjects, func(ctx context.Context, cursor *int64) ([]*model.Project, *int64, error) {
		page, err := fetchPage[hubstaff.ProjectsPage](ctx, s, ResourceProjects, path, url.Values{}, cursor)
		if err != nil {
			return nil, nil, err
		}

		projects := make([]*model.Project, 0, len(page.Projects))
		for _, dto := range page.Projects {
			if !s.valid(ctx, ResourceProjects, dto) {
				continue
			}
			project := &model.Project{}
			if err := copier.Copy(project, dto); err != nil {
				return nil, nil, errors.Wrapf(err, "failed to convert project %d", dto.ID)
			}
			project.OrganizationID = organizationID
			projects = append(projects, project)
		}

		return projects, page.Pagination.Next(), nil
	})
}

// FetchUsers pages through the organization's members. User records are side-loaded;
// a member without one is still returned with its id only.
func (s *Hubstaff) FetchUsers(organizationID int64) *Pager[model.User] {
	path := organizationPath(organizationID, "members")
	query := url.Values{"include": {"users"}}

	return newPager(ResourceUsers, func(ctx context.Context, cursor *int64) ([]*model.User, *int64, error) {
		page, err := fetchPage[hubstaff.MembersPage](ctx, s, ResourceUsers, path, query, cursor)
		if err != nil {
			return nil, nil, err
		}

		included := make(map[int64]*hubstaff.User, len(page.Users))
		for _, u := range page.Users {
			if s.valid(ctx, ResourceUsers, u) {
				included[u.ID] = u
			}
		}

		users := make([]*model.User, 0, len(page.Members))
		for _, member := range page.Members {
			if member == nil || member.UserID <= 0 {
				continue
			}
			user := &model.User{ID: member.UserID}
			if dto, ok := included[member.UserID]; ok {
				if err := copier.Copy(user, dto); err != nil {
					return nil, nil, errors.Wrapf(err, "failed to convert user %d", dto.ID)
				}
			}
			user.OrganizationID = organizationID
			users = append(users, user)
		}

		return users, page.Pagination.Next(), nil
	})
}

// valid drops records that fail validation with a warning instead of failing the page.
func (s *Hubstaff) valid(ctx context.Context, resource string, record interface{}) bool {
	if record == nil {
		return false
	}
	if err := s.validate.Struct(record); err != nil {
		observability.InvalidRecords.WithLabelValues(resource).Inc()
		log.Ctx(ctx).Warn().
			Str("resource", resource).
			Str("reason", s.validate.Explain(err)).
			Interface("record", record).
			Msg("dropping invalid record")
		return false
	}
	return true
}

// fetchPage retrieves one page into a fresh P. Transient failures are retried with
// exponential backoff; a 401 invalidates the token and retries the page once.
func fetchPage[P any](ctx context.Context, s *Hubstaff, resource, path string, query url.Values, cursor *int64) (*P, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page_limit", strconv.Itoa(s.pageLimit))
	if cursor != nil {
		q.Set("page_start_id", strconv.FormatInt(*cursor, 10))
	}
	endpoint := s.baseURL + path + "?" + q.Encode()

	var page *P
	reauthenticated := false
	attempt := func() error {
		p := new(P)
		err := s.get(ctx, endpoint, p)
		if errors.Is(err, errUnauthorized) && !reauthenticated {
			reauthenticated = true
			log.Ctx(ctx).Info().Str("resource", resource).Msg("access token rejected, re-authenticating")
			s.tokens.Invalidate()
			p = new(P)
			err = s.get(ctx, endpoint, p)
		}
		if errors.Is(err, errUnauthorized) {
			return apperr.ErrAuthenticationFailed.Msg("Hubstaff rejected the credential for %s even after re-authenticating", resource)
		}
		if err != nil {
			return err
		}
		page = p
		return nil
	}

	err := retry.Do(attempt,
		retry.Context(ctx),
		retry.Attempts(s.maxAttempts),
		retry.Delay(s.backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			observability.FetchRetries.WithLabelValues(resource).Inc()
			log.Ctx(ctx).Warn().
				Err(err).
				Str("resource", resource).
				Uint("attempt", n+1).
				Msg("transient failure fetching page, retrying")
		}),
	)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthenticationFailed) {
			return nil, err
		}
		var at interface{}
		if cursor != nil {
			at = *cursor
		}
		return nil, apperr.ErrFetchFailed.
			Msg("failed to fetch %s page at cursor %s", resource, describeCursor(cursor)).
			WithExtras(apperr.Extras{"resource": resource, "cursor": at}).
			Wrap(err)
	}

	return page, nil
}

func (s *Hubstaff) get(ctx context.Context, endpoint string, dest interface{}) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func describeCursor(cursor *int64) string {
	if cursor == nil {
		return "<first>"
	}
	return strconv.FormatInt(*cursor, 10)
}
