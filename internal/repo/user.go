package repo

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/repo/selector"
)

type User struct {
	db  *bun.DB
	sel selector.S[model.User]
}

func NewUser(db *bun.DB) *User {
	return &User{db: db, sel: selector.New[model.User](db)}
}

func (r *User) Upsert(ctx context.Context, users []*model.User) (int, error) {
	users = lo.UniqBy(users, func(u *model.User) int64 { return u.ID })
	if len(users) == 0 {
		return 0, nil
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&users).
			On("CONFLICT (id) DO UPDATE").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to upsert %d users", len(users))
	}

	return len(users), nil
}

func (r *User) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

// GetUserName falls back to the decimal user id when the user is unknown or has no name.
func (r *User) GetUserName(ctx context.Context, id int64) (string, error) {
	user, err := r.GetUserByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return strconv.FormatInt(id, 10), nil
	} else if err != nil {
		return "", errors.Wrapf(err, "failed to look up user %d", id)
	}
	if user.Name == "" {
		return strconv.FormatInt(id, 10), nil
	}
	return user.Name, nil
}
