package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/fx"

	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/pkg/apperr"

	_ "modernc.org/sqlite" // pure Go SQLite driver registered as "sqlite"
)

func SQLite(conf *appconfig.Config, lc fx.Lifecycle) (*bun.DB, error) {
	db, err := OpenSQLite(conf.DatabasePath, conf.BunDebugVerbose)
	if err != nil {
		return nil, apperr.StoreIO(err, "failed to open store at %s", conf.DatabasePath)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}

// OpenSQLite opens the store file at path. All access goes through a single
// connection: the process is the only writer and SQLite serializes writers anyway.
func OpenSQLite(path string, verbose bool) (*bun.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_time_format=sqlite"
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if verbose {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping sqlite database at %s", path)
	}

	log.Debug().Str("path", path).Msg("sqlite store opened")

	return db, nil
}
