package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/speakingtest"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List speaking tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		records, err := d.api.List(cmd.Context())
		if err != nil {
			return listError(cfg.API.BaseURL, err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Println("No tests available")
			return nil
		}

		fmt.Printf("%-6s  %-20s  %-6s  %s\n", "ID", "Created", "Score", "Question")
		fmt.Println(strings.Repeat("─", 90))
		for _, r := range records {
			score := "-"
			if r.Score.Present() {
				score = r.Score.String()
			}
			q, _, _ := strings.Cut(r.Question, "\n")
			fmt.Printf("%-6d  %-20s  %-6s  %s\n", r.ID, r.CreatedAt.Format(), score, truncate(q, 60))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Print records as JSON")
}

// listError names the backend when it could not be reached at all.
func listError(baseURL string, err error) error {
	if speakingtest.IsUnreachable(err) {
		return fmt.Errorf("list tests: backend at %s is not reachable: %w", baseURL, err)
	}
	return fmt.Errorf("list tests: %w", err)
}
