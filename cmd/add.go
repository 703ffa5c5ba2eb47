package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/testlist"
)

var addCmd = &cobra.Command{
	Use:   "add <question...>",
	Short: "Create a speaking test",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		if err := testlist.ValidateQuestion(question); err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		return createAndReport(cmd, testlist.NewService(d.api, cfg.API.AuthorID), question)
	},
}

// createAndReport creates question and prints the new record's id. Errors
// carry the same text the TUI shows.
func createAndReport(cmd *cobra.Command, svc *testlist.Service, question string) error {
	switch a := svc.Create(cmd.Context(), question).(type) {
	case testlist.CreateSucceeded:
		fmt.Printf("Created test %d\n", a.Record.ID)
		return nil
	case testlist.CreateFailed:
		return fmt.Errorf("%s: %w", testlist.CreateErrorMessage(a.Err), a.Err)
	default:
		return fmt.Errorf("unexpected result %T", a)
	}
}
