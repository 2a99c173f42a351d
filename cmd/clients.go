package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/client-dashboard/internal/dashboard"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/query"
)

var (
	clientsStage  string
	clientsFormat string
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Print clients whose stage changed recently",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmp, err := query.ParseComparison(clientsStage)
		if err != nil {
			return err
		}
		f, err := newFetcher(cfg)
		if err != nil {
			return err
		}

		rows, err := loadRows(cmd.Context(), f, cmp, cfg.StageOptions(), time.Now())
		if err != nil {
			return err
		}
		return writeRows(cmd.OutOrStdout(), clientsFormat, rows)
	},
}

// loadRows runs one stage query and returns its normalized rows. A fetch
// failure is returned as a *fetch.Failure.
func loadRows(ctx context.Context, src dashboard.StageSource, cmp query.Comparison, opts query.StageOptions, now time.Time) ([]model.NormalizedClientRow, error) {
	table := dashboard.LoadStageTable(ctx, src, cmp, opts, now)
	if table.Failure != nil {
		return nil, table.Failure
	}
	return table.Rows, nil
}

// writeRows renders rows as an aligned table, JSON, or YAML.
func writeRows(w io.Writer, format string, rows []model.NormalizedClientRow) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rows), "clients: encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(rows); err != nil {
			return eris.Wrap(err, "clients: encode yaml")
		}
		return eris.Wrap(enc.Close(), "clients: flush yaml")
	case "table", "":
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "No clients found matching the criteria.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMPLOYEE\tCITY\tSTATE\tSTREET\tSTAGE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				r.ClientID, r.ClientFullname, r.PhoneValue(), r.EmployeeValue(),
				r.City, r.State, r.Street, r.CurrentStage)
		}
		return tw.Flush()
	default:
		return eris.Errorf("clients: unknown format %q", format)
	}
}

func init() {
	clientsCmd.Flags().StringVar(&clientsStage, "stage", "gt", "stage comparison: gt or lt")
	clientsCmd.Flags().StringVar(&clientsFormat, "format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(clientsCmd)
}
