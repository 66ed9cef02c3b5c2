package model

import (
	"time"

	"github.com/uptrace/bun"
)

// CurrentSchemaVersion is written by install. Bump it together with a migration.
const CurrentSchemaVersion = 1

type SchemaVersion struct {
	bun.BaseModel `bun:"schema_versions,alias:sv"`

	Version     int       `bun:"version,pk" json:"version"`
	InstalledAt time.Time `bun:"installed_at,notnull" json:"installedAt"`
}
