package hubstaff

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// DailyActivity is an element of GET /v2/organizations/{id}/activities/daily.
type DailyActivity struct {
	ID           int64     `json:"id" validate:"required,gt=0"`
	Date         string    `json:"date" validate:"required,isodate"`
	UserID       int64     `json:"user_id" validate:"required,gt=0"`
	ProjectID    int64     `json:"project_id"`
	TaskID       null.Int  `json:"task_id"`
	Keyboard     int64     `json:"keyboard"`
	Mouse        int64     `json:"mouse"`
	Overall      int64     `json:"overall"`
	Tracked      int64     `json:"tracked" validate:"gte=0"`
	InputTracked int64     `json:"input_tracked"`
	Manual       int64     `json:"manual"`
	Idle         int64     `json:"idle"`
	Resumed      int64     `json:"resumed"`
	Billable     int64     `json:"billable"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DailyActivitiesPage struct {
	DailyActivities []*DailyActivity `json:"daily_activities"`
	Pagination      *Pagination      `json:"pagination"`
}
