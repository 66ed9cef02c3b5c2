package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/ahmetb/go-linq/v3"
	"github.com/samber/lo"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/pkg/cache"
	"github.com/staffhours/backend/internal/repo"
)

// Report builds the person-by-day pivot of tracked hours from the local store.
type Report struct {
	activityRepo *repo.Activity
	projectRepo  *repo.Project
	userRepo     *repo.User

	projectNames *cache.Set[string]
	userNames    *cache.Set[string]
}

func NewReport(activityRepo *repo.Activity, projectRepo *repo.Project, userRepo *repo.User) *Report {
	return &Report{
		activityRepo: activityRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		projectNames: cache.NewSet[string]("project-name"),
		userNames:    cache.NewSet[string]("user-name"),
	}
}

func (s *Report) Build(ctx context.Context, organizationID int64, start, end time.Time) (*model.PivotTable, error) {
	window, err := model.NewSyncWindow(organizationID, start, end)
	if err != nil {
		return nil, err
	}
	return s.BuildWindow(ctx, window)
}

// BuildWindow has one column per day of the window, zero-filled, and one row per
// person with activity in it. Every total is computed from summed seconds and
// rounded once, so the grand total equals the sum of all included durations.
func (s *Report) BuildWindow(ctx context.Context, window *model.SyncWindow) (*model.PivotTable, error) {
	// names may have changed since the previous build in this process
	s.projectNames.Flush()
	s.userNames.Flush()

	activities, err := s.activityRepo.GetActivitiesByWindow(ctx, window.OrganizationID, window.StartDay(), window.EndDay())
	if err != nil {
		return nil, apperr.StoreIO(err, "failed to query activities for %s", window)
	}

	days := window.Days()
	column := make(map[string]int, len(days))
	for i, day := range days {
		column[day] = i
	}

	daySeconds := make([]int64, len(days))
	var grandSeconds int64

	rows := make([]*model.PivotRow, 0)
	for userID, userActivities := range lo.GroupBy(activities, func(a *model.Activity) int64 { return a.UserID }) {
		seconds := make([]int64, len(days))
		var total int64
		for _, a := range userActivities {
			i, ok := column[a.Date]
			if !ok {
				continue
			}
			seconds[i] += a.Tracked
			daySeconds[i] += a.Tracked
			total += a.Tracked
		}
		grandSeconds += total

		label, err := s.userName(ctx, userID)
		if err != nil {
			return nil, err
		}
		projects, err := s.projectNamesOf(ctx, userActivities)
		if err != nil {
			return nil, err
		}

		rows = append(rows, &model.PivotRow{
			UserID:   userID,
			Label:    label,
			Hours:    lo.Map(seconds, func(sec int64, _ int) float64 { return model.HoursFromSeconds(sec) }),
			Total:    model.HoursFromSeconds(total),
			Projects: projects,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Label != rows[j].Label {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].UserID < rows[j].UserID
	})

	return &model.PivotTable{
		OrganizationID: window.OrganizationID,
		Days:           days,
		Rows:           rows,
		DayTotals:      lo.Map(daySeconds, func(sec int64, _ int) float64 { return model.HoursFromSeconds(sec) }),
		GrandTotal:     model.HoursFromSeconds(grandSeconds),
	}, nil
}

func (s *Report) userName(ctx context.Context, userID int64) (string, error) {
	name, _, err := s.userNames.MutexGetSet(strconv.FormatInt(userID, 10), func() (string, error) {
		return s.userRepo.GetUserName(ctx, userID)
	}, time.Hour)
	if err != nil {
		return "", apperr.StoreIO(err, "failed to resolve user %d", userID)
	}
	return name, nil
}

// projectNamesOf returns the distinct project names of activities, sorted.
func (s *Report) projectNamesOf(ctx context.Context, activities []*model.Activity) ([]string, error) {
	var projectIDs []int64
	linq.From(activities).
		SelectT(func(a *model.Activity) int64 { return a.ProjectID }).
		Distinct().
		ToSlice(&projectIDs)

	names := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		id := id
		name, _, err := s.projectNames.MutexGetSet(strconv.FormatInt(id, 10), func() (string, error) {
			return s.projectRepo.GetProjectName(ctx, id)
		}, time.Hour)
		if err != nil {
			return nil, apperr.StoreIO(err, "failed to resolve project %d", id)
		}
		names = append(names, name)
	}

	var distinct []string
	linq.From(names).
		Distinct().
		OrderByT(func(name string) string { return name }).
		ToSlice(&distinct)
	if distinct == nil {
		distinct = []string{}
	}

	return distinct, nil
}
