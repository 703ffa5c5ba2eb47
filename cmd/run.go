package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/app"
	"github.com/abhisek/speaktest/internal/testlist"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := openDeps(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{
		Service: testlist.NewService(d.api, cfg.API.AuthorID),
		BaseURL: cfg.API.BaseURL,
		Debug:   cfg.Debug,
		LogFile: cfg.LogFile,
	}

	sg, err := d.suggester(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question suggestions will be unavailable.")
	} else if sg != nil {
		opts.Suggester = sg
	}

	return app.Run(opts)
}
