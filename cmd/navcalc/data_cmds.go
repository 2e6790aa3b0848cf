package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpgo/fund-calculator/internal/metrics"
	"github.com/rpgo/fund-calculator/internal/navdata"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

func (a *app) fundsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "funds [query]",
		Short: "Search the scheme catalog by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.navStore(cmd.Context())
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			if limit <= 0 {
				limit = a.settings.SearchLimit
			}
			funds, err := store.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME")
			for _, f := range funds {
				fmt.Fprintf(tw, "%s\t%s\n", f.Code, f.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from settings)")
	return cmd
}

func (a *app) navCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav <fund>",
		Short: "Show the latest NAV of a scheme (code or exact name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.navStore(ctx)
			if err != nil {
				return err
			}
			inst, err := store.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			latest, err := store.LatestNAV(ctx, inst.Code)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s (%s)\nNAV %s on %s\n", inst.Name, inst.Code,
				latest.Price.String(), dateutil.FormatISO(latest.Date))
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export <fund>",
		Short: "Write a scheme's NAV history as date,nav CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.navStore(ctx)
			if err != nil {
				return err
			}
			inst, err := store.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			series, err := store.History(ctx, inst.Code)
			if err != nil {
				return err
			}
			if file == "" {
				return navdata.WriteCSV(a.stdout, series)
			}
			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", file, err)
			}
			if err := navdata.WriteCSV(f, series); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Infof("wrote %d samples to %s", series.Len(), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "output", "o", "", "destination file (default stdout)")
	return cmd
}

func (a *app) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the metrics registry in Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return metrics.WriteText(a.stdout)
		},
	}
}
