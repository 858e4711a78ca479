package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/finwise/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect lesson coach requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent coach requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.engine.Events.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		events = filterPurpose(events, purpose)

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No coach requests recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 98))
		for _, ev := range events {
			ok := "✓"
			if !ev.Success {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				ev.Sequence,
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Purpose,
				truncate(ev.Model, 28),
				ev.InputTokens,
				ev.OutputTokens,
				ev.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show coach token usage by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.engine.Events.QueryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		usage := summarizeUsage(events)
		if len(usage) == 0 {
			fmt.Fprintln(out, "No coach usage recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-12s  %6s  %6s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Failed", "Input", "Output", "Avg Ms")
		fmt.Fprintln(out, strings.Repeat("─", 62))
		for _, u := range usage {
			fmt.Fprintf(out, "%-12s  %6d  %6d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.Failed, u.InputTokens, u.OutputTokens, u.avgLatency())
		}
		return nil
	},
}

// purposeUsage aggregates coach requests sharing a purpose.
type purposeUsage struct {
	Purpose      string
	Calls        int
	Failed       int
	InputTokens  int
	OutputTokens int
	latencyMs    int64
}

func (u purposeUsage) avgLatency() int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.latencyMs / int64(u.Calls)
}

func summarizeUsage(events []store.LLMRequestEvent) []purposeUsage {
	byPurpose := map[string]*purposeUsage{}
	for _, ev := range events {
		u, ok := byPurpose[ev.Purpose]
		if !ok {
			u = &purposeUsage{Purpose: ev.Purpose}
			byPurpose[ev.Purpose] = u
		}
		u.Calls++
		if !ev.Success {
			u.Failed++
		}
		u.InputTokens += ev.InputTokens
		u.OutputTokens += ev.OutputTokens
		u.latencyMs += ev.LatencyMs
	}

	usage := make([]purposeUsage, 0, len(byPurpose))
	for _, u := range byPurpose {
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].Purpose < usage[j].Purpose })
	return usage
}

func filterPurpose(events []store.LLMRequestEvent, purpose string) []store.LLMRequestEvent {
	if purpose == "" {
		return events
	}
	kept := events[:0]
	for _, ev := range events {
		if ev.Purpose == purpose {
			kept = append(kept, ev)
		}
	}
	return kept
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explain)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
