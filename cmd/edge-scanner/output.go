package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sports-edge/internal/models"
	"github.com/yourusername/sports-edge/internal/publisher"
	"github.com/yourusername/sports-edge/internal/service"
)

// scanReport is the JSON form of a scan
type scanReport struct {
	publisher.Snapshot
	CacheStale bool                `json:"cache_stale"`
	Summary    service.ScanSummary `json:"summary"`
}

func newScanReport(result *service.ScanResult, opps []models.Opportunity) scanReport {
	return scanReport{
		Snapshot:   publisher.NewSnapshot(result.RunID.String(), opps, result.Summary.StartTime),
		CacheStale: result.CacheStale,
		Summary:    result.Summary,
	}
}

// renderOpportunities prints the ranked list as an aligned table
func renderOpportunities(w io.Writer, opps []models.Opportunity, stake func(float64) decimal.Decimal) error {
	if len(opps) == 0 {
		_, err := fmt.Fprintln(w, publisher.NoOpportunitiesMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSPORT\tMATCHUP\tPICK\tMODEL\tMARKET\tEDGE\tEV/100\tKELLY\tSTAKE\tTIER\tSCORE")
	for i, opp := range opps {
		fmt.Fprintf(tw, "%d\t%s\t%s @ %s\t%s\t%.1f%%\t%.1f%%\t%+.1f%%\t%.2f\t%.2f%%\t%s\t%s\t%.2f\n",
			i+1,
			opp.Event.Sport,
			opp.Event.AwayTeam, opp.Event.HomeTeam,
			opp.Team,
			opp.ModelProbability*100,
			opp.MarketProbability*100,
			opp.EdgePercent(),
			opp.ExpectedValue,
			opp.KellyFraction*100,
			stake(opp.KellyFraction).StringFixed(2),
			opp.ConfidenceTier,
			opp.CombinedScore,
		)
	}
	return tw.Flush()
}
