package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
)

// Schema owns table creation and the schema version marker.
type Schema struct {
	db *bun.DB
}

func NewSchema(db *bun.DB) *Schema {
	return &Schema{db: db}
}

var schemaModels = []interface{}{
	(*model.SchemaVersion)(nil),
	(*model.Project)(nil),
	(*model.User)(nil),
	(*model.Activity)(nil),
}

type schemaIndex struct {
	model   interface{}
	name    string
	columns []string
}

var schemaIndexes = []schemaIndex{
	{(*model.Activity)(nil), "activities_organization_date_idx", []string{"organization_id", "date"}},
	{(*model.Activity)(nil), "activities_user_idx", []string{"user_id"}},
	{(*model.Project)(nil), "projects_organization_idx", []string{"organization_id"}},
	{(*model.User)(nil), "users_organization_idx", []string{"organization_id"}},
}

// Install creates every table and index and writes the version marker, all in one
// transaction. An existing marker aborts with ErrAlreadyInitialized before anything is touched.
func (r *Schema) Install(ctx context.Context) (*model.SchemaVersion, error) {
	version := &model.SchemaVersion{
		Version:     model.CurrentSchemaVersion,
		InstalledAt: time.Now().UTC(),
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := currentVersion(ctx, tx)
		if err != nil && !errors.Is(err, apperr.ErrNotInitialized) {
			return err
		}
		if current != nil {
			return apperr.ErrAlreadyInitialized.Msg(
				"store is already initialized at schema version %d (installed %s); refusing to install again",
				current.Version, current.InstalledAt.Format(time.RFC3339),
			)
		}

		for _, m := range schemaModels {
			if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return errors.Wrapf(err, "failed to create table for %T", m)
			}
		}
		for _, idx := range schemaIndexes {
			if _, err := tx.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.columns...).
				IfNotExists().
				Exec(ctx); err != nil {
				return errors.Wrapf(err, "failed to create index %s", idx.name)
			}
		}

		_, err = tx.NewInsert().Model(version).Exec(ctx)
		return errors.Wrap(err, "failed to write schema version marker")
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// CurrentVersion returns the latest version marker, or ErrNotInitialized.
func (r *Schema) CurrentVersion(ctx context.Context) (*model.SchemaVersion, error) {
	return currentVersion(ctx, r.db)
}

// EnsureInstalled fails with ErrNotInitialized unless Install has run against this store.
func (r *Schema) EnsureInstalled(ctx context.Context) error {
	_, err := r.CurrentVersion(ctx)
	return err
}

func currentVersion(ctx context.Context, db bun.IDB) (*model.SchemaVersion, error) {
	tables, err := db.NewSelect().
		Table("sqlite_master").
		Where("type = 'table'").
		Where("name = ?", "schema_versions").
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to inspect sqlite_master")
	}
	if tables == 0 {
		return nil, apperr.ErrNotInitialized
	}

	var versions []*model.SchemaVersion
	err = db.NewSelect().
		Model(&versions).
		Order("version DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schema version marker")
	}
	if len(versions) == 0 {
		return nil, apperr.ErrNotInitialized
	}

	return versions[0], nil
}
