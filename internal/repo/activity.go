package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/repo/selector"
)

type Activity struct {
	db  *bun.DB
	sel selector.S[model.Activity]
}

func NewActivity(db *bun.DB) *Activity {
	return &Activity{db: db, sel: selector.New[model.Activity](db)}
}

// Upsert inserts or overwrites activities keyed by id within a single transaction.
// An incoming row older (by updated_at) than the stored one is skipped, so replaying
// an outdated page cannot roll data back. It returns the number of rows written.
func (r *Activity) Upsert(ctx context.Context, activities []*model.Activity) (int, error) {
	if len(activities) == 0 {
		return 0, nil
	}

	var written int
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		fresh, err := r.newerThanStored(ctx, tx, latestActivities(activities))
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			return nil
		}

		_, err = tx.NewInsert().
			Model(&fresh).
			On("CONFLICT (id) DO UPDATE").
			Exec(ctx)
		if err != nil {
			return err
		}

		written = len(fresh)
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to upsert %d activities", len(activities))
	}

	return written, nil
}

func (r *Activity) newerThanStored(ctx context.Context, tx bun.Tx, activities []*model.Activity) ([]*model.Activity, error) {
	ids := lo.Map(activities, func(a *model.Activity, _ int) int64 { return a.ID })

	var stored []*model.Activity
	err := tx.NewSelect().
		Model(&stored).
		Column("id", "updated_at").
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stored activity versions")
	}

	storedAt := lo.Associate(stored, func(a *model.Activity) (int64, time.Time) {
		return a.ID, a.UpdatedAt
	})

	return lo.Filter(activities, func(a *model.Activity, _ int) bool {
		at, ok := storedAt[a.ID]
		return !ok || !a.UpdatedAt.Before(at)
	}), nil
}

// latestActivities collapses duplicate ids of one batch to the most recently updated row,
// keeping first-seen order.
func latestActivities(activities []*model.Activity) []*model.Activity {
	index := make(map[int64]int, len(activities))
	out := make([]*model.Activity, 0, len(activities))
	for _, a := range activities {
		if i, ok := index[a.ID]; ok {
			if !a.UpdatedAt.Before(out[i].UpdatedAt) {
				out[i] = a
			}
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}

// GetActivitiesByWindow returns the organization's activities dated within [startDay, endDay].
func (r *Activity) GetActivitiesByWindow(ctx context.Context, organizationID int64, startDay, endDay string) ([]*model.Activity, error) {
	activities, err := r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("organization_id = ?", organizationID).
			Where("date BETWEEN ? AND ?", startDay, endDay).
			Order("date ASC", "id ASC")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to query activities")
	}
	return activities, nil
}

func (r *Activity) GetActivityByID(ctx context.Context, id int64) (*model.Activity, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

func (r *Activity) CountActivities(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*model.Activity)(nil)).Count(ctx)
}
