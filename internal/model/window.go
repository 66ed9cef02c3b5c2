package model

import (
	"time"

	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/pkg/workday"
)

// SyncWindow is the inclusive calendar-day range a sync or report operates on.
type SyncWindow struct {
	OrganizationID int64
	Start          time.Time
	End            time.Time
}

func NewSyncWindow(organizationID int64, start, end time.Time) (*SyncWindow, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperr.ErrInvalidWindow.Msg("invalid date window: both start and end are required")
	}
	w := &SyncWindow{
		OrganizationID: organizationID,
		Start:          start,
		End:            end,
	}
	if w.StartDay() > w.EndDay() {
		return nil, apperr.ErrInvalidWindow.Msg("invalid date window: start %s is after end %s", w.StartDay(), w.EndDay())
	}
	return w, nil
}

func (w *SyncWindow) StartDay() string {
	return workday.Format(w.Start)
}

func (w *SyncWindow) EndDay() string {
	return workday.Format(w.End)
}

// Days lists every day of the window in chronological order.
func (w *SyncWindow) Days() []string {
	return workday.Days(w.Start, w.End)
}

// Includes reports whether day (in workday.Layout) lies within the window.
func (w *SyncWindow) Includes(day string) bool {
	return day >= w.StartDay() && day <= w.EndDay()
}

func (w *SyncWindow) String() string {
	return w.StartDay() + ".." + w.EndDay()
}
