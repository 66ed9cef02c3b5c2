package repo_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"

	"github.com/staffhours/backend/internal/infra"
	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/repo"
)

func openStore(t *testing.T) *bun.DB {
	t.Helper()

	db, err := infra.OpenSQLite(filepath.Join(t.TempDir(), "store.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func installedStore(t *testing.T) *bun.DB {
	t.Helper()

	db := openStore(t)
	_, err := repo.NewSchema(db).Install(context.Background())
	require.NoError(t, err)

	return db
}

func activity(id int64, date string, userID, projectID, tracked int64, updatedAt time.Time) *model.Activity {
	return &model.Activity{
		ID:             id,
		OrganizationID: 1,
		Date:           date,
		UserID:         userID,
		ProjectID:      projectID,
		TaskID:         null.Int{},
		Tracked:        tracked,
		CreatedAt:      updatedAt,
		UpdatedAt:      updatedAt,
	}
}

func TestSchemaInstall(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)
	schema := repo.NewSchema(db)

	_, err := schema.CurrentVersion(ctx)
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
	assert.ErrorIs(t, schema.EnsureInstalled(ctx), apperr.ErrNotInitialized)

	version, err := schema.Install(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CurrentSchemaVersion, version.Version)

	current, err := schema.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.NoError(t, schema.EnsureInstalled(ctx))
	assert.Equal(t, model.CurrentSchemaVersion, current.Version)

	_, err = schema.Install(ctx)
	assert.ErrorIs(t, err, apperr.ErrAlreadyInitialized)
	assert.Equal(t, apperr.ExitInstallation, apperr.ExitCodeOf(err))
}

func TestSchemaInstallKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	db := installedStore(t)
	activities := repo.NewActivity(db)

	now := time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC)
	_, err := activities.Upsert(ctx, []*model.Activity{activity(1, "2024-02-06", 10, 100, 1800, now)})
	require.NoError(t, err)

	_, err = repo.NewSchema(db).Install(ctx)
	require.ErrorIs(t, err, apperr.ErrAlreadyInitialized)

	count, err := activities.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestActivityUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := installedStore(t)
	activities := repo.NewActivity(db)

	now := time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC)
	batch := []*model.Activity{
		activity(1, "2024-02-06", 10, 100, 1800, now),
		activity(2, "2024-02-06", 10, 100, 1800, now),
		activity(3, "2024-02-07", 20, 100, 1800, now),
	}

	for i := 0; i < 2; i++ {
		written, err := activities.Upsert(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 3, written)
	}

	count, err := activities.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestActivityUpsertKeepsNewest(t *testing.T) {
	ctx := context.Background()
	db := installedStore(t)
	activities := repo.NewActivity(db)

	older := time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	_, err := activities.Upsert(ctx, []*model.Activity{activity(1, "2024-02-06", 10, 100, 3600, newer)})
	require.NoError(t, err)

	written, err := activities.Upsert(ctx, []*model.Activity{activity(1, "2024-02-06", 10, 100, 60, older)})
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	stored, err := activities.GetActivityByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), stored.Tracked)

	written, err = activities.Upsert(ctx, []*model.Activity{
		activity(1, "2024-02-06", 10, 100, 7200, newer.Add(time.Hour)),
		activity(1, "2024-02-06", 10, 100, 120, newer.Add(time.Minute)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	stored, err = activities.GetActivityByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7200), stored.Tracked)
}

func TestGetActivitiesByWindow(t *testing.T) {
	ctx := context.Background()
	db := installedStore(t)
	activities := repo.NewActivity(db)

	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	other := activity(6, "2024-02-07", 10, 100, 60, now)
	other.OrganizationID = 2
	_, err := activities.Upsert(ctx, []*model.Activity{
		activity(1, "2024-02-05", 10, 100, 60, now),
		activity(2, "2024-02-06", 10, 100, 60, now),
		activity(3, "2024-02-07", 10, 100, 60, now),
		activity(4, "2024-02-08", 10, 100, 60, now),
		activity(5, "2024-02-06", 20, 100, 60, now),
		other,
	})
	require.NoError(t, err)

	got, err := activities.GetActivitiesByWindow(ctx, 1, "2024-02-06", "2024-02-07")
	require.NoError(t, err)

	ids := make([]int64, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int64{2, 5, 3}, ids)

	empty, err := activities.GetActivitiesByWindow(ctx, 1, "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProjectAndUserNames(t *testing.T) {
	ctx := context.Background()
	db := installedStore(t)
	projects := repo.NewProject(db)
	users := repo.NewUser(db)

	now := time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC)
	written, err := projects.Upsert(ctx, []*model.Project{
		{ID: 100, OrganizationID: 1, Name: "Apollo", CreatedAt: now, UpdatedAt: now},
		{ID: 100, OrganizationID: 1, Name: "Apollo", CreatedAt: now, UpdatedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	_, err = users.Upsert(ctx, []*model.User{
		{ID: 10, OrganizationID: 1, Name: "Ada", CreatedAt: now, UpdatedAt: now},
	})
	require.NoError(t, err)

	name, err := projects.GetProjectName(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", name)

	name, err = projects.GetProjectName(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, model.UnknownProjectName, name)

	name, err = users.GetUserName(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	name, err = users.GetUserName(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", name)

	_, err = projects.Upsert(ctx, []*model.Project{
		{ID: 100, OrganizationID: 1, Name: "Apollo II", CreatedAt: now, UpdatedAt: now.Add(time.Hour)},
	})
	require.NoError(t, err)

	name, err = projects.GetProjectName(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Apollo II", name)
}
