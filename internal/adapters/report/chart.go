package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
)

// ChartRenderer renders a pass summary as a stacked bar chart page
type ChartRenderer struct {
	title string
}

// NewChartRenderer creates a renderer with the given page title
func NewChartRenderer(title string) *ChartRenderer {
	if title == "" {
		title = "Upload pass"
	}
	return &ChartRenderer{title: title}
}

var _ ports.ReportRenderer = (*ChartRenderer)(nil)

// Render writes a self-contained HTML page to w
func (r *ChartRenderer) Render(w io.Writer, summary domain.PassSummary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: r.title}),
		charts.WithTitleOpts(opts.Title{
			Title:    r.title,
			Subtitle: subtitle(summary),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	labels := make([]string, 0, len(summary.ByType))
	succeeded := make([]opts.BarData, 0, len(summary.ByType))
	failed := make([]opts.BarData, 0, len(summary.ByType))
	for _, tc := range summary.ByType {
		labels = append(labels, tc.MIMEType)
		succeeded = append(succeeded, opts.BarData{Value: tc.Succeeded})
		failed = append(failed, opts.BarData{Value: tc.Failed})
	}

	bar.SetXAxis(labels).
		AddSeries("Succeeded", succeeded, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#22c55e"})).
		AddSeries("Failed", failed, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ef4444"}))
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "outcome"}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func subtitle(s domain.PassSummary) string {
	text := fmt.Sprintf("%d file(s): %d succeeded, %d failed", s.Total, s.Succeeded, s.Failed)
	if s.SessionID != "" {
		text += " | session " + s.SessionID
	}
	return text
}
