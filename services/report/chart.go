package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderRateChart plots the monthly rate against the Fixierung period,
// one line per Laufzeit. Fixierung values a shorter Laufzeit never
// reaches are left as gaps.
func (s Service) RenderRateChart(w io.Writer, report Report) error {
	fixierungen := fixierungAxis(report)
	if len(fixierungen) == 0 {
		return fmt.Errorf("no variations to chart")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Rate nach Fixierung",
			Width:     "1000px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Monatliche Rate nach Fixierungsdauer",
			Subtitle: fmt.Sprintf("Datenstand %s", report.ScrapeDate.Format("02.01.2006")),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Fixierung (Jahre)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rate (€/Monat)", Scale: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	var axis []string
	for _, f := range fixierungen {
		axis = append(axis, fmt.Sprintf("%d", f))
	}
	line = line.SetXAxis(axis)

	for _, run := range report.Runs {
		rates := rateByFixierung(run)
		var data []opts.LineData
		for _, f := range fixierungen {
			if rate, ok := rates[f]; ok {
				data = append(data, opts.LineData{Value: rate})
			} else {
				// echarts renders "-" as a gap
				data = append(data, opts.LineData{Value: "-"})
			}
		}
		line.AddSeries(fmt.Sprintf("%d Jahre Laufzeit", run.LaufzeitJahre), data)
	}

	return line.Render(w)
}

// fixierungAxis collects the sorted union of fixierung values across
// all runs.
func fixierungAxis(report Report) []int64 {
	seen := map[int64]bool{}
	for _, run := range report.Runs {
		for _, row := range run.Rows {
			if row.rate.Valid {
				seen[row.FixierungJahre] = true
			}
		}
	}
	var out []int64
	for f := range seen {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func rateByFixierung(run RunView) map[int64]float64 {
	out := map[int64]float64{}
	for _, row := range run.Rows {
		if row.rate.Valid {
			out[row.FixierungJahre] = row.rate.Float64
		}
	}
	return out
}
