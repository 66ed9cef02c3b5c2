package model

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a member of the organization and the person directory of the report.
type User struct {
	bun.BaseModel `bun:"users,alias:us"`

	ID             int64     `bun:"id,pk" json:"id"`
	OrganizationID int64     `bun:"organization_id,notnull" json:"organizationId"`
	Name           string    `bun:"name,notnull" json:"name"`
	Email          string    `bun:"email" json:"email"`
	TimeZone       string    `bun:"time_zone" json:"timeZone"`
	Status         string    `bun:"status" json:"status"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
