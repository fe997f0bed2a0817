package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/washline-backend/pkg/config"
	"github.com/angelmondragon/washline-backend/pkg/db"
	"github.com/angelmondragon/washline-backend/pkg/logger"
	"github.com/angelmondragon/washline-backend/pkg/migrate"
)

const usage = `usage: migrate [flags] <command>

commands:
  up                 apply all pending migrations
  down               roll back the latest migration
  status             list migrations and whether they are applied
  to <version>       migrate up or down to YYYYMMDDHHMMSS
  create <name>      write a new SQL migration into -dir
  lint               check the migration files in -dir

flags:
`

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	dir := flags.String("dir", migrate.SourceDir, "migrations source directory for create and lint")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}
	cmd, args := flags.Arg(0), flags.Args()[1:]

	// create and lint work on source files and need no config.
	switch cmd {
	case "create":
		if len(args) != 1 {
			fail("create requires exactly one <name>")
		}
		path, err := migrate.Create(*dir, args[0], time.Now())
		if err != nil {
			fail("create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "lint":
		if err := migrate.Lint(os.DirFS(*dir)); err != nil {
			fail("lint migrations: %v", err)
		}
		fmt.Println("migrations ok")
		return
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": cmd})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	runner, err := migrate.NewRunner(sqlDB, nil)
	requireResource(ctx, logg, "migration runner", err)

	var applied []migrate.Applied
	switch cmd {
	case "up":
		applied, err = runner.Up(ctx)
	case "down":
		applied, err = runner.Down(ctx)
	case "to":
		if len(args) != 1 {
			fail("to requires exactly one <version>")
		}
		applied, err = runner.To(ctx, args[0])
	case "status":
		err = printStatus(ctx, runner)
	default:
		flags.Usage()
		os.Exit(2)
	}

	for _, m := range applied {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"version":   m.Version,
			"direction": m.Direction,
			"file":      m.Path,
		}), "migration.applied")
	}
	if err != nil {
		logg.Error(ctx, "migration.failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "applied", len(applied)), "migration.complete")
}

func printStatus(ctx context.Context, runner *migrate.Runner) error {
	statuses, err := runner.Status(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tFILE")
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Path)
	}
	return tw.Flush()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
