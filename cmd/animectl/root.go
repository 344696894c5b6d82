// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/animes/internal/platform/config"
	"github.com/taibuivan/animes/internal/platform/constants"
)

// errMemoryDriver is returned by commands that need a persistent store.
var errMemoryDriver = errors.New("animectl: STORE_DRIVER=memory has no persistent state to manage")

// cli carries what every subcommand needs once the root has loaded configuration.
type cli struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
}

// newRootCommand assembles the command tree. Output goes to stdout, logs to stderr.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	state := &cli{stdout: stdout}

	root := &cobra.Command{
		Use:           "animectl",
		Short:         "Operate the Anime API store: migrations and user accounts",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Debug {
				level = slog.LevelDebug
			}

			state.cfg = cfg
			state.log = slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level})).
				With(slog.String("app", constants.AppName), slog.String("command", cmd.CommandPath()))
			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newMigrateCommand(state), newUserCommand(state))

	return root
}

func (state *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(state.stdout, format, args...)
}
