package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/repo/selector"
)

type Project struct {
	db  *bun.DB
	sel selector.S[model.Project]
}

func NewProject(db *bun.DB) *Project {
	return &Project{db: db, sel: selector.New[model.Project](db)}
}

// Upsert inserts or overwrites projects keyed by id within a single transaction.
func (r *Project) Upsert(ctx context.Context, projects []*model.Project) (int, error) {
	projects = lo.UniqBy(projects, func(p *model.Project) int64 { return p.ID })
	if len(projects) == 0 {
		return 0, nil
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&projects).
			On("CONFLICT (id) DO UPDATE").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to upsert %d projects", len(projects))
	}

	return len(projects), nil
}

func (r *Project) GetProjectByID(ctx context.Context, id int64) (*model.Project, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

func (r *Project) GetProjectsByOrganization(ctx context.Context, organizationID int64) ([]*model.Project, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("organization_id = ?", organizationID).Order("id ASC")
	})
}

// GetProjectName returns model.UnknownProjectName when the project has not been synced.
func (r *Project) GetProjectName(ctx context.Context, id int64) (string, error) {
	project, err := r.GetProjectByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return model.UnknownProjectName, nil
	} else if err != nil {
		return "", errors.Wrapf(err, "failed to look up project %d", id)
	}
	return project.Name, nil
}
