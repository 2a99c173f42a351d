package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/client-dashboard/internal/export"
	"github.com/sells-group/client-dashboard/internal/query"
)

var (
	exportOut   string
	exportStage string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the client list to a .csv, .xlsx or .db file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmp, err := query.ParseComparison(exportStage)
		if err != nil {
			return err
		}
		if _, err := export.FormatForPath(exportOut); err != nil {
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
		if err := export.WriteFile(cmd.Context(), exportOut, rows); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", exportOut),
			zap.String("stage", cmp.Slug()),
			zap.Int("rows", len(rows)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (.csv, .xlsx, .db or .sqlite)")
	exportCmd.Flags().StringVar(&exportStage, "stage", "gt", "stage comparison: gt or lt")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
