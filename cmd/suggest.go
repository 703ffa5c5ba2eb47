package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/llm"
	"github.com/abhisek/speaktest/internal/suggest"
	"github.com/abhisek/speaktest/internal/testlist"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the configured LLM for a speaking question",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		part, _ := cmd.Flags().GetInt("part")
		add, _ := cmd.Flags().GetBool("add")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		sg, err := d.suggester(cmd.Context())
		if err != nil {
			return err
		}
		if sg == nil {
			return errors.Join(llm.ErrDisabled,
				errors.New("set SPEAKTEST_LLM_PROVIDER or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY"))
		}

		q, err := sg.Suggest(cmd.Context(), suggest.Input{Topic: topic, Part: part})
		if err != nil {
			return fmt.Errorf("%s: %w", testlist.MsgSuggestFailed, err)
		}
		fmt.Println(q)

		if !add {
			return nil
		}
		return createAndReport(cmd, testlist.NewService(d.api, cfg.API.AuthorID), q)
	},
}

func init() {
	suggestCmd.Flags().StringP("topic", "t", "", "Topic to ask about (e.g. travel, technology)")
	suggestCmd.Flags().IntP("part", "p", 0, "IELTS speaking part 1, 2 or 3 (0 = any)")
	suggestCmd.Flags().Bool("add", false, "Create a test from the suggestion")
}
