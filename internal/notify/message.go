package notify

import (
	"fmt"
	"strconv"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

// statusSentinel stands in for the HTTP status when the request never
// completed (DNS failure, refused connection, timeout).
const statusSentinel = "n/a"

// AlertText renders the Markdown alert body for a report. The second return
// is false for UP: a healthy target produces no alert.
func AlertText(report domain.Report) (string, bool) {
	switch report.Outcome {
	case domain.OutcomeDown:
		status := statusSentinel
		if report.Result.StatusCode != 0 {
			status = strconv.Itoa(report.Result.StatusCode)
		}
		return fmt.Sprintf(
			"🔴 *%s is DOWN*\nURL: %s\nHTTP: %s",
			report.Target.Name, report.Target.Endpoint(), status,
		), true
	case domain.OutcomeSlow:
		return fmt.Sprintf(
			"⚠️ *%s is SLOW*\nURL: %s\nLatency: %d ms",
			report.Target.Name, report.Target.Endpoint(), report.Result.LatencyMS,
		), true
	default:
		return "", false
	}
}
