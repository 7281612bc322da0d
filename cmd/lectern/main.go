package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tomepress/lectern/internal/config"
	"github.com/tomepress/lectern/internal/ebook"
	"github.com/tomepress/lectern/internal/history"
	"github.com/tomepress/lectern/internal/session"
	"github.com/tomepress/lectern/internal/ui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:            "lectern",
		Usage:           "TUI ebook reader",
		UsageText:       "lectern [options] [PATH | # | PATTERN]",
		Version:         version,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "history",
				Aliases: []string{"r"},
				Usage:   "print reading history and exit",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file `PATH`",
			},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lectern:", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	log, err := cfg.Logging.Build()
	if err != nil {
		return err
	}

	// A broken history store degrades the session to in-memory progress,
	// it never prevents reading.
	store, storeErr := history.Open(cfg.HistoryPath, log)
	if storeErr != nil {
		log.Warn("reading history unavailable", zap.Error(storeErr))
	}

	if cmd.Bool("history") {
		if store != nil {
			defer store.Close()
		}
		return printHistory(store, storeErr)
	}

	path, err := resolveEbookPath(store, cmd.Args().Slice())
	if err != nil {
		if store != nil {
			store.Close()
		}
		return err
	}

	rec := history.Record{Filepath: path}
	if store != nil {
		if rec, err = store.GetOrCreate(path); err != nil {
			log.Warn("restore reading state", zap.Error(err))
			rec = history.Record{Filepath: path}
		}
	}
	log.Info("opening ebook",
		zap.String("path", path),
		zap.Float64("progress", rec.Progress))

	sess := session.New(cfg, log, store, rec)
	app := ui.NewApp(sess, func() (ebook.Ebook, error) {
		return ebook.Open(path)
	})

	_, runErr := tea.NewProgram(app, tea.WithAltScreen()).Run()

	// Exit blocks until the final save completes.
	err = multierr.Combine(runErr, app.Err(), sess.Finish(app.Ebook(), app.Progress()))
	return err
}
