package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		sport   string
		minEdge float64
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle and print the ranked opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sports := cfg.Scan.Sports
			if sport != "" {
				sports = []string{strings.ToLower(sport)}
			}
			if !cmd.Flags().Changed("min-edge") {
				minEdge = cfg.Edge.MinEdge
			}

			p, err := buildPipeline(ctx, sports)
			if err != nil {
				return err
			}
			defer p.Close()

			result, err := p.scanner.ScanFeed(ctx, p.feed)
			if err != nil {
				return err
			}

			opps := result.Filter(sport, minEdge)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(newScanReport(result, opps))
			}

			if result.CacheStale {
				fmt.Fprintln(out, "warning: market data is stale; the last fetch failed")
			}
			return renderOpportunities(out, opps, p.scanner.Calculator().StakeFor)
		},
	}

	cmd.Flags().StringVar(&sport, "sport", "", "Only scan this sport (e.g. nfl, nba)")
	cmd.Flags().Float64Var(&minEdge, "min-edge", 0, "Minimum edge to display (defaults to edge.min_edge)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
