package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/testlist"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a speaking test",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
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

		svc := testlist.NewService(d.api, cfg.API.AuthorID)
		if a, ok := svc.Delete(cmd.Context(), id).(testlist.DeleteFailed); ok {
			return fmt.Errorf("%s: %w", testlist.MsgDeleteFailed, a.Err)
		}
		fmt.Printf("Deleted test %d\n", id)
		return nil
	},
}
