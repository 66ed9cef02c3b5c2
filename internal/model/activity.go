package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// Activity is one tracked slice of work of a user on a project on a calendar day.
type Activity struct {
	bun.BaseModel `bun:"activities,alias:ac"`

	ID             int64 `bun:"id,pk" json:"id"`
	OrganizationID int64 `bun:"organization_id,notnull" json:"organizationId"`
	// Date is the calendar day in workday.Layout. Stored as text so range scans compare lexically.
	Date      string   `bun:"date,notnull" json:"date"`
	UserID    int64    `bun:"user_id,notnull" json:"userId"`
	ProjectID int64    `bun:"project_id,notnull" json:"projectId"`
	TaskID    null.Int `bun:"task_id,type:integer" json:"taskId"`

	// Tracked is the worked duration in seconds.
	Tracked      int64 `bun:"tracked,notnull" json:"tracked"`
	Keyboard     int64 `bun:"keyboard,notnull" json:"keyboard"`
	Mouse        int64 `bun:"mouse,notnull" json:"mouse"`
	Overall      int64 `bun:"overall,notnull" json:"overall"`
	InputTracked int64 `bun:"input_tracked,notnull" json:"inputTracked"`
	Manual       int64 `bun:"manual,notnull" json:"manual"`
	Idle         int64 `bun:"idle,notnull" json:"idle"`
	Resumed      int64 `bun:"resumed,notnull" json:"resumed"`
	Billable     int64 `bun:"billable,notnull" json:"billable"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

func (a *Activity) Duration() time.Duration {
	return time.Duration(a.Tracked) * time.Second
}
