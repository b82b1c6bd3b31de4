package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/eco-locaux/prospect-cli/internal/model"
	"github.com/eco-locaux/prospect-cli/internal/scorer"
	"github.com/eco-locaux/prospect-cli/internal/store"
)

func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, store.Options{
		Driver:      cfg.Store.Driver,
		DatabaseURL: cfg.Store.DatabaseURL,
		MaxConns:    cfg.Store.MaxConns,
		MinConns:    cfg.Store.MinConns,
	})
}

// scoredRow is one line of score output, shared by the score command
// and the API.
type scoredRow struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type,omitempty"`
	City     string      `json:"city,omitempty"`
	Score    int         `json:"score"`
	Tier     scorer.Tier `json:"tier"`
	Status   string      `json:"status"`
	Priority string      `json:"priority"`
}

func scoreRows(leads []model.Lead) []scoredRow {
	rows := make([]scoredRow, 0, len(leads))
	for i := range leads {
		l := &leads[i]
		score := scorer.Score(l)
		row := scoredRow{
			ID:       l.ID,
			Name:     l.Name,
			Score:    score,
			Tier:     scorer.TierFor(score),
			Status:   string(l.Status),
			Priority: string(l.Priority),
		}
		if l.Type != nil {
			row.Type = *l.Type
		}
		if l.SearchCity != nil {
			row.City = *l.SearchCity
		}
		rows = append(rows, row)
	}
	return rows
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, nil
}

func closeOutput(w io.WriteCloser) {
	if w != os.Stdout {
		w.Close()
	}
}

func writeScoreTable(w io.Writer, rows []scoredRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tCITY\tSCORE\tTIER\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s %s\t%s\n",
			r.Name, r.Type, r.City, r.Score, r.Tier.Marker, r.Tier.Category, r.Status)
	}
	return tw.Flush()
}

func writeScoreCSV(w io.Writer, rows []scoredRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "type", "city", "score", "tier", "status", "priority"}); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, r := range rows {
		rec := []string{r.ID, r.Name, r.Type, r.City,
			strconv.Itoa(r.Score), string(r.Tier.Category), r.Status, r.Priority}
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "flush csv")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}
