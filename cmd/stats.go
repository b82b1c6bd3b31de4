package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eco-locaux/prospect-cli/internal/stats"
	"github.com/eco-locaux/prospect-cli/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute dashboard statistics from the lead pipeline",
	Long: `Aggregate the lead pipeline into the dashboard views: headline KPIs,
status evolution, type and city rollups, the salesperson leaderboard,
and progress against the monthly objectives.

Examples:
  # Human-readable summary
  stats

  # Full report as JSON
  stats --format json

  # 30-day evolution window
  stats --days 30`,
	RunE: runStats,
}

func init() {
	f := statsCmd.Flags()
	f.Int("days", 0, "evolution window in days (default from config)")
	f.String("format", "summary", "output format: summary or json")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	days, _ := cmd.Flags().GetInt("days")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "summary" && format != "table" && format != "json" {
		return eris.Errorf("stats: --format must be summary, table, or json (got %q)", format)
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := store.Snapshot(ctx, s)
	if err != nil {
		return err
	}

	opts := cfg.Stats.Options()
	if days > 0 {
		opts.EvolutionDays = days
	}
	report := stats.Compute(snap, time.Now(), opts)

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput(out)

	if format == "json" {
		return writeJSON(out, report)
	}
	return writeStatsSummary(out, report)
}

func writeStatsSummary(w io.Writer, r stats.Report) error {
	fmt.Fprintf(w, "Pipeline at %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Leads:             %d (%d active)\n", r.KPIs.TotalLeads, r.KPIs.ActiveLeads)
	fmt.Fprintf(w, "Conversion rate:   %.1f%%\n", r.KPIs.ConversionRate)
	fmt.Fprintf(w, "Potential revenue: %.2f\n\n", r.KPIs.PotentialRevenue)

	fmt.Fprintf(w, "Monthly objectives (%s)\n", r.GeneratedAt.Format("January 2006"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeObjective(tw, "New leads", r.Objectives.NewLeads)
	writeObjective(tw, "Appointments", r.Objectives.Appointments)
	writeObjective(tw, "Conversions", r.Objectives.Conversions)
	writeObjective(tw, "Revenue", r.Objectives.Revenue)
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "stats: flush objectives")
	}

	if len(r.Leaderboard) > 0 {
		fmt.Fprintln(w, "\nLeaderboard")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SALESPERSON\tLEADS\tWON\tCONVERSION")
		for _, s := range r.Leaderboard {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n",
				s.Name, s.AssignedLeads, s.WonLeads, s.ConversionRate)
		}
		if err := tw.Flush(); err != nil {
			return eris.Wrap(err, "stats: flush leaderboard")
		}
	}

	if len(r.Cities) > 0 {
		fmt.Fprintln(w, "\nTop cities")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CITY\tLEADS\tWON\tPOTENTIAL")
		for _, c := range r.Cities {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.City, c.Count, c.WonLeads, c.Potential)
		}
		if err := tw.Flush(); err != nil {
			return eris.Wrap(err, "stats: flush cities")
		}
	}

	return nil
}

func writeObjective(w io.Writer, label string, o stats.Objective) {
	fmt.Fprintf(w, "%s\t%.0f / %.0f\t%.0f%%\n", label, o.Actual, o.Target, o.Progress())
}
