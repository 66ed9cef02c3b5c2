package model

import (
	"time"

	"github.com/uptrace/bun"
)

// UnknownProjectName labels activities whose project has not been synced.
const UnknownProjectName = "Unknown"

type Project struct {
	bun.BaseModel `bun:"projects,alias:pj"`

	ID             int64     `bun:"id,pk" json:"id"`
	OrganizationID int64     `bun:"organization_id,notnull" json:"organizationId"`
	Name           string    `bun:"name,notnull" json:"name"`
	Status         string    `bun:"status" json:"status"`
	Billable       bool      `bun:"billable,notnull" json:"billable"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
