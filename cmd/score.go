package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eco-locaux/prospect-cli/internal/importer"
	"github.com/eco-locaux/prospect-cli/internal/model"
	"github.com/eco-locaux/prospect-cli/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score and rank prospected leads",
	Long: `Score leads 0-100 from public signals (Google rating, review count,
average ticket, contact completeness) and rank them into priority tiers.

Examples:
  # Score every lead in the database, best first
  score

  # Only the urgent tier
  score --tier urgent

  # Score a file without touching the database
  score --input prospects.xlsx

  # Export to CSV
  score --format csv --output scores.csv`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("input", "", "score a JSON/CSV/XLSX file instead of the database")
	f.String("tier", "", "only show one tier: urgent, important, medium, or low")
	f.Int("min-score", 0, "only show leads scoring at least this much")
	f.Bool("asc", false, "sort ascending (worst leads first)")
	f.Int("limit", 0, "maximum number of results (0=all)")
	f.String("format", "table", "output format: table, csv, or json")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("input")
	tierName, _ := cmd.Flags().GetString("tier")
	minScore, _ := cmd.Flags().GetInt("min-score")
	ascending, _ := cmd.Flags().GetBool("asc")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "table" && format != "csv" && format != "json" {
		return eris.Errorf("score: --format must be table, csv, or json (got %q)", format)
	}

	var leads []model.Lead
	if input != "" {
		res, err := importer.ParseFile(input, importer.Options{MaxRows: cfg.Import.MaxRows})
		if err != nil {
			return eris.Wrapf(err, "score: parse %s", input)
		}
		for _, re := range res.Errors {
			zap.L().Warn("skipping invalid row", zap.Int("row", re.Row), zap.Error(re.Err))
		}
		leads = res.Leads
	} else {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		leads, err = s.ListLeads(ctx)
		if err != nil {
			return err
		}
	}

	if tierName != "" {
		category, err := scorer.ParseTierCategory(tierName)
		if err != nil {
			return eris.Wrap(err, "score: --tier")
		}
		leads = scorer.FilterByTier(leads, category)
	}
	if minScore > 0 {
		var kept []model.Lead
		for i := range leads {
			if scorer.Score(&leads[i]) >= minScore {
				kept = append(kept, leads[i])
			}
		}
		leads = kept
	}

	sorted := scorer.SortByScore(leads, ascending)
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	rows := scoreRows(sorted)

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput(out)

	switch format {
	case "csv":
		return writeScoreCSV(out, rows)
	case "json":
		return writeJSON(out, rows)
	default:
		return writeScoreTable(out, rows)
	}
}
