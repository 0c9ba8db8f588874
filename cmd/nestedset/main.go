package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/tui"
	"nestedset/internal/config"
	"nestedset/internal/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.Database, "db", cfg.Database, "path to the sqlite database")
	flag.StringVar(&cfg.Driver, "driver", cfg.Driver, "store driver: sqlite, sqlite3 (cgo) or memory")
	flag.StringVar(&cfg.List, "list", cfg.List, "list (table) holding the records")
	flag.StringVar(&cfg.Field, "field", cfg.Field, "hierarchy field of the list")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "nestedset")
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	env, err := wire.Open(context.Background(), cfg, cfg.Logger(logOut))
	if err != nil {
		return err
	}
	defer env.Close()

	p := tea.NewProgram(tui.NewApp(env.Tree), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
