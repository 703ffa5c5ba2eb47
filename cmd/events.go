package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/config"
	"github.com/abhisek/speaktest/internal/llm"
	"github.com/abhisek/speaktest/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the local log of backend and LLM requests",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		opts, err := queryOptsFromFlags(cmd, time.Now())
		if err != nil {
			return err
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()

		switch kind {
		case "api":
			events, err := s.EventRepo().QueryAPIRequests(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No API events found.")
				return nil
			}
			fmt.Printf("%-5s  %-19s  %-8s  %-6s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Op", "Method", "Record", "Status", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 80))
			for _, e := range events {
				record := "-"
				if e.RecordID != 0 {
					record = strconv.FormatInt(e.RecordID, 10)
				}
				fmt.Printf("%-5d  %-19s  %-8s  %-6s  %-6s  %-6d  %-7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format(timeLayout),
					e.Operation,
					e.Method,
					record,
					e.StatusCode,
					e.LatencyMs,
					okMark(e.Success),
				)
			}
		case "llm":
			events, err := s.EventRepo().QueryLLMRequests(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No LLM events found.")
				return nil
			}
			fmt.Printf("%-5s  %-19s  %-16s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 100))
			for _, e := range events {
				fmt.Printf("%-5d  %-19s  %-16s  %-28s  %-6d  %-6d  %-7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format(timeLayout),
					e.Purpose,
					truncate(e.Model, 28),
					e.InputTokens,
					e.OutputTokens,
					e.LatencyMs,
					okMark(e.Success),
				)
			}
		default:
			return fmt.Errorf("unknown event kind %q (want api or llm)", kind)
		}
		return nil
	},
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one request event in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		switch kind {
		case "api":
			e, err := s.EventRepo().GetAPIRequest(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			fmt.Printf("ID:        %d\n", e.ID)
			fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
			fmt.Printf("Request:   %s\n", e.RequestID)
			fmt.Printf("Operation: %s\n", e.Operation)
			fmt.Printf("Call:      %s %s\n", e.Method, e.URL)
			if e.RecordID != 0 {
				fmt.Printf("Record:    %d\n", e.RecordID)
			}
			fmt.Printf("Status:    %d\n", e.StatusCode)
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			fmt.Printf("Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", e.ErrorMessage)
			}
		case "llm":
			e, err := s.EventRepo().GetLLMRequest(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			fmt.Printf("ID:        %d\n", e.ID)
			fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
			fmt.Printf("Provider:  %s\n", e.Provider)
			fmt.Printf("Model:     %s\n", e.Model)
			fmt.Printf("Purpose:   %s\n", e.Purpose)
			fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			fmt.Printf("Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", e.ErrorMessage)
			}

			sep := strings.Repeat("─", 60)
			fmt.Println()
			printSection(sep, "REQUEST", e.RequestBody)
			printSection(sep, "RESPONSE", e.ResponseBody)
		default:
			return fmt.Errorf("unknown event kind %q (want api or llm)", kind)
		}
		return nil
	},
}

type modelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show backend success rates and estimated LLM cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		apiEvents, err := s.EventRepo().QueryAPIRequests(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query API events: %w", err)
		}
		llmEvents, err := s.EventRepo().QueryLLMRequests(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query LLM events: %w", err)
		}

		if len(apiEvents) == 0 && len(llmEvents) == 0 {
			fmt.Println("No requests recorded yet.")
			return nil
		}

		if len(apiEvents) > 0 {
			printAPIStats(apiEvents)
		}
		if len(llmEvents) > 0 {
			if len(apiEvents) > 0 {
				fmt.Println()
			}
			printLLMCost(llmEvents)
		}
		return nil
	},
}

func printAPIStats(events []store.APIRequestEventRecord) {
	type opStats struct {
		calls, failed int
		latency       int64
	}
	byOp := map[string]*opStats{}
	for _, e := range events {
		st := byOp[e.Operation]
		if st == nil {
			st = &opStats{}
			byOp[e.Operation] = st
		}
		st.calls++
		st.latency += e.LatencyMs
		if !e.Success {
			st.failed++
		}
	}

	ops := make([]string, 0, len(byOp))
	for op := range byOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	fmt.Println("Backend Requests")
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("%-10s  %6s  %6s  %8s\n", "Operation", "Calls", "Failed", "Avg Ms")
	fmt.Println(strings.Repeat("─", 48))
	for _, op := range ops {
		st := byOp[op]
		fmt.Printf("%-10s  %6d  %6d  %8d\n", op, st.calls, st.failed, st.latency/int64(st.calls))
	}
}

func printLLMCost(events []store.LLMRequestEventRecord) {
	byModel := map[string]*modelUsage{}
	for _, e := range events {
		mu := byModel[e.Model]
		if mu == nil {
			mu = &modelUsage{Model: e.Model}
			byModel[e.Model] = mu
		}
		mu.Calls++
		mu.InputTokens += e.InputTokens
		mu.OutputTokens += e.OutputTokens
	}
	usage := make([]*modelUsage, 0, len(byModel))
	for _, mu := range byModel {
		usage = append(usage, mu)
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].Calls > usage[j].Calls })

	fmt.Println("Estimated LLM Cost (USD)")
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
		"Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(strings.Repeat("─", 72))

	var totalCost float64
	var unknownModels []string
	for _, mu := range usage {
		cost := llm.LookupCost(mu.Model)
		if cost == nil {
			unknownModels = append(unknownModels, mu.Model)
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		totalCost += c
		fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
	}

	fmt.Println(strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))

	if len(unknownModels) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
}

// queryOptsFromFlags builds the event filter from the list flags. --since
// is relative to now.
func queryOptsFromFlags(cmd *cobra.Command, now time.Time) (store.QueryOpts, error) {
	var opts store.QueryOpts
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.After, _ = cmd.Flags().GetInt64("after")
	opts.Before, _ = cmd.Flags().GetInt64("before")

	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		opts.From = now.Add(-since)
	}
	if until, _ := cmd.Flags().GetString("until"); until != "" {
		t, err := parseUntil(until)
		if err != nil {
			return opts, err
		}
		opts.To = t
	}
	if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
		return opts, fmt.Errorf("--until %s is before --since window start", opts.To.Format(timeLayout))
	}
	return opts, nil
}

// parseUntil accepts RFC 3339 or a bare date, which means the end of that
// day in local time.
func parseUntil(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --until %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return d.Add(24*time.Hour - time.Nanosecond), nil
}

// openEventStore opens the event log without requiring a valid backend URL.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return openStore(cfg)
}

func printSection(sep, title, body string) {
	fmt.Println(sep)
	fmt.Println(title)
	fmt.Println(sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func okMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsListCmd.Flags().StringP("kind", "k", "api", "Event kind: api or llm")
	eventsListCmd.Flags().Int64("after", 0, "Only events with sequence greater than this")
	eventsListCmd.Flags().Int64("before", 0, "Only events with sequence less than this")
	eventsListCmd.Flags().Duration("since", 0, "Only events newer than this (e.g. 1h, 30m)")
	eventsListCmd.Flags().String("until", "", "Only events up to this time (RFC 3339 or YYYY-MM-DD)")
	eventsViewCmd.Flags().StringP("kind", "k", "api", "Event kind: api or llm")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsViewCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}
