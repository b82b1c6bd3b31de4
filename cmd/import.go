package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eco-locaux/prospect-cli/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import prospected leads from a JSON, CSV, or XLSX file",
	Long: `Parse a prospecting export and insert the leads into the database.
Column headers and status labels are matched loosely: accents, casing,
and French/English spellings are all accepted. Rows that fail
validation are reported and skipped; the rest are imported.

Examples:
  # Import a scraped sheet
  import prospects.xlsx

  # Validate without writing
  import prospects.csv --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("dry-run", false, "parse and validate only, do not insert")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	path := args[0]

	res, err := importer.ParseFile(path, importer.Options{MaxRows: cfg.Import.MaxRows})
	if err != nil {
		return eris.Wrapf(err, "import: parse %s", path)
	}

	for _, re := range res.Errors {
		zap.L().Warn("rejected row", zap.Int("row", re.Row), zap.Error(re.Err))
	}

	if dryRun {
		fmt.Printf("%d lead(s) valid, %d row(s) rejected (dry run, nothing inserted)\n",
			len(res.Leads), len(res.Errors))
		return nil
	}
	if len(res.Leads) == 0 {
		return eris.Errorf("import: no valid leads in %s (%d rows rejected)", path, len(res.Errors))
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	n, err := s.InsertLeads(ctx, res.Leads)
	if err != nil {
		return eris.Wrap(err, "import: insert")
	}

	zap.L().Info("import complete",
		zap.String("file", path),
		zap.Int("inserted", n),
		zap.Int("rejected", len(res.Errors)),
	)
	fmt.Printf("%d lead(s) imported, %d row(s) rejected\n", n, len(res.Errors))
	return nil
}
