package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "github.com/staffhours/backend/cmd/app/cli"
	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/app/appcontext"
	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/pkg/bininfo"
	"github.com/staffhours/backend/internal/pkg/observability"
	"github.com/staffhours/backend/internal/pkg/workday"
	"github.com/staffhours/backend/internal/render"
	"github.com/staffhours/backend/internal/service"
)

type runDeps struct {
	fx.In

	Config *appconfig.Config
	Runner *service.Runner
}

type installDeps struct {
	fx.In

	Install *service.Install
}

func Run() {
	app := &cli.App{
		Name:        "staffhours",
		Usage:       "sync Hubstaff activities into a local store and report hours per person per day",
		Description: "Fetches daily activities, projects and members of a Hubstaff organization into a SQLite file, then renders a person-by-day pivot of tracked hours. Without --start/--end the window is yesterday in STAFFHOURS_TIME_ZONE.",
		Version:     bininfo.Describe(),
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "organization",
				Aliases: []string{"o"},
				Usage:   "Hubstaff organization id (required unless --install)",
				EnvVars: []string{"STAFFHOURS_ORGANIZATION"},
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "first day of the window, YYYY-MM-DD (requires --end)",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "last day of the window, YYYY-MM-DD (requires --start)",
			},
			&cli.BoolFlag{
				Name:  "report-only",
				Usage: "skip fetching and report from the local store",
			},
			&cli.BoolFlag{
				Name:  "install",
				Usage: "create the local store schema and exit",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "verbose logging",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: string(render.FormatText),
				Usage: "report format: text or html",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "write the report to this file instead of stdout",
			},
		},
		Action: action,
		// exit codes are mapped below, after Sentry had a chance to flush
		ExitErrHandler: func(*cli.Context, error) {},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("staffhours failed")
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.CaptureException(err)
			sentry.Flush(2 * time.Second)
		}
		os.Exit(apperr.ExitCodeOf(err))
	}
}

func action(c *cli.Context) error {
	actx := appcontext.Declare(appcontext.EnvCLI).WithDebug(c.Bool("debug"))

	if c.Bool("install") {
		return cliapp.Run(actx, func(ctx context.Context, deps installDeps) error {
			_, err := deps.Install.Run(ctx)
			return err
		})
	}

	if !c.IsSet("organization") {
		return apperr.ErrInvalidArgument.Msg("--organization is required")
	}
	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	mode := service.FetchAndReport
	if c.Bool("report-only") {
		mode = service.ReportOnly
	}

	return cliapp.Run(actx, func(ctx context.Context, deps runDeps) error {
		start, err := parseDay(c.String("start"), deps.Config.Location)
		if err != nil {
			return err
		}
		end, err := parseDay(c.String("end"), deps.Config.Location)
		if err != nil {
			return err
		}

		pivot, runErr := deps.Runner.Execute(ctx, service.RunRequest{
			Mode:           mode,
			OrganizationID: c.Int64("organization"),
			Start:          start,
			End:            end,
		})
		if runErr == nil {
			observability.LastSuccess.SetToCurrentTime()
			runErr = writeReport(c.String("output"), format, pivot)
		}

		if deps.Config.PushgatewayURL != "" {
			if err := observability.Push(ctx, deps.Config.PushgatewayURL, c.Int64("organization")); err != nil {
				log.Warn().Err(err).Msg("failed to push run metrics")
			}
		}

		return runErr
	})
}

// parseDay returns nil for an empty flag so the window can be resolved later.
func parseDay(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := workday.Parse(s, loc)
	if err != nil {
		return nil, apperr.ErrInvalidWindow.Msg("invalid date %q: expected %s", s, workday.Layout).Wrap(err)
	}
	return &t, nil
}

func writeReport(path string, format render.Format, pivot *model.PivotTable) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return apperr.ErrInvalidArgument.Msg("cannot create report file %s", path).Wrap(err)
		}
		defer f.Close()
		w = f
	}

	if err := render.Write(w, format, pivot); err != nil {
		return errors.Wrap(err, "failed to render report")
	}
	return nil
}
