package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/storage/database"
)

type migrator interface {
	Up() error
	UpByOne() error
	Down() error
	Redo() error
	UpTo(version int64) error
	DownTo(version int64) error
}

var openMigratorFunc = openMigrator // mockable

func openMigrator(conf *core.Config) (migrator, io.Closer, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = database.Ping(ctx, db, 10); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return database.NewMigrator(db), db, nil
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	run := func(name string, f func(m migrator) error) error {
		m, closer, err := openMigratorFunc(cli.conf)
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer closer.Close()
		if err = f(m); err != nil {
			return errors.Wrap(err, name)
		}
		cli.logger.Printf("migrate %s: done", name)
		return nil
	}
	simple := func(name, short string, f func(m migrator) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return run(name, f)
			},
		}
	}
	versioned := func(name, short string, f func(m migrator, v int64) error) *cobra.Command {
		return &cobra.Command{
			Use:   name + " VERSION",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				v, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("version must be a number (got '%s')", args[0])
				}
				return run(name, func(m migrator) error { return f(m, v) })
			},
		}
	}

	cmd.AddCommand(
		simple("up", "Apply all pending migrations", migrator.Up),
		simple("up-by-one", "Apply the next pending migration", migrator.UpByOne),
		simple("down", "Roll back the latest migration", migrator.Down),
		simple("redo", "Roll back and re-apply the latest migration", migrator.Redo),
		versioned("up-to", "Apply migrations up to VERSION", migrator.UpTo),
		versioned("down-to", "Roll back migrations down to VERSION", migrator.DownTo),
	)
	return cmd
}
