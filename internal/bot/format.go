package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/stats"
)

const helpText = "Available commands:\n" +
	"/check - probe every target now\n" +
	"/stats - today's traffic statistics\n" +
	"/weekly - statistics for the past week"

func formatReports(reports []domain.Report) string {
	if len(reports) == 0 {
		return "No targets configured."
	}

	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch r.Outcome {
		case domain.OutcomeUp:
			fmt.Fprintf(&sb, "✅ %s UP (%d ms)", r.Target.Name, r.Result.LatencyMS)
		case domain.OutcomeSlow:
			fmt.Fprintf(&sb, "⚠️ %s SLOW (%d ms)", r.Target.Name, r.Result.LatencyMS)
		default:
			status := "no response"
			if r.Result.StatusCode != 0 {
				status = fmt.Sprintf("HTTP %d", r.Result.StatusCode)
			}
			fmt.Fprintf(&sb, "🔴 %s DOWN (%s)", r.Target.Name, status)
		}
	}
	return sb.String()
}

func formatDaily(hits *stats.Hits, day time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 GoatCounter Stats for %s:\n\n", day.Format("2006-01-02"))
	fmt.Fprintf(&sb, "👥 Unique visitors: %d\n", hits.TotalUnique)
	fmt.Fprintf(&sb, "📄 Total pageviews: %d\n", hits.TotalCount)
	appendTopPages(&sb, hits.Paths, "today")
	return sb.String()
}

func formatWeekly(hits *stats.Hits, start, end time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 GoatCounter Weekly Stats (%s to %s):\n\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Fprintf(&sb, "👥 Unique visitors: %d\n", hits.TotalUnique)
	fmt.Fprintf(&sb, "📄 Total pageviews: %d\n", hits.TotalCount)
	appendTopPages(&sb, hits.Paths, "this week")
	return sb.String()
}

func appendTopPages(sb *strings.Builder, paths []stats.PathHits, period string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n📊 Top pages %s:\n", period)
	for i, page := range paths {
		fmt.Fprintf(sb, "%d. %s: %d views (%d unique)\n",
			i+1, page.Path, page.Count, page.CountUnique)
	}
}
