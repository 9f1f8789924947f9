package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/config"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/export"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/logger"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/store"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns stdout, so logs go to a file.
	logPath, err := logger.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logPath, cfg.LogLevel)
	defer log.Sync()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening preferences database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	opts := []api.Option{api.WithLogger(log)}
	if cfg.APIToken != "" {
		token := cfg.APIToken
		opts = append(opts, api.WithMiddleware(api.BearerToken(func() string { return token })))
	}

	client, err := api.New(cfg.APIURL, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	coord := export.New(client, st.DownloadDir)

	app := tui.NewApp(client, st, coord, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
