package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"entropy_go/internal/domain"
	"entropy_go/internal/engine"
)

// reportViews fixes the print order of the ranked views.
var reportViews = []struct {
	key   string
	title string
}{
	{engine.ViewROI, "Top by ROI"},
	{engine.ViewSharpe, "Top by Sharpe"},
	{engine.ViewDrawdown, "Top by Drawdown"},
}

// PrintReport writes the three ranked views as aligned tables, best
// rows first, capped at topN rows per view.
func PrintReport(w io.Writer, report *engine.Report, topN int) {
	if len(report.Summaries) > 0 {
		fmt.Fprintf(w, "combinations: %d  buy&hold: %.2f%%\n",
			len(report.Summaries), report.Summaries[0].BuyHoldROIPct)
	}

	for _, view := range reportViews {
		fmt.Fprintf(w, "\n=== %s ===\n", view.title)
		printView(w, viewRows(report, view.key), topN)
	}
}

func viewRows(report *engine.Report, key string) []*domain.Summary {
	switch key {
	case engine.ViewSharpe:
		return report.BySharpe
	case engine.ViewDrawdown:
		return report.ByDrawdown
	default:
		return report.ByROI
	}
}

func printView(w io.Writer, rows []*domain.Summary, topN int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tperiod\tzscore\tfee(bps)\troi%\tsharpe\tmaxdd%\ttrades\twin%\t")

	n := 0
	for _, s := range rows {
		if n >= topN {
			break
		}
		if s.NoData {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%.1f\tno data\t\t\t\t\t\n",
				n+1, s.Period, s.ThresholdLabel(), s.FeeBps)
			n++
			continue
		}

		sharpe := fmt.Sprintf("%.2f", s.Sharpe)
		if s.SharpeInfinite() {
			sharpe = "+inf"
		}
		note := ""
		if s.Bankrupt {
			note = " (bankrupt)"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.1f\t%.2f\t%s\t%.2f\t%d\t%.1f%s\t\n",
			n+1, s.Period, s.ThresholdLabel(), s.FeeBps,
			s.ROIPct, sharpe, s.MaxDrawdownPct, s.Trades, s.WinRatePct, note)
		n++
	}
	tw.Flush()
}
