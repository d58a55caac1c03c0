package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

type httpProber struct {
	client    *http.Client
	userAgent string
}

// Probe issues a single GET against the target endpoint and measures
// wall-clock latency. There are no retries: a transport error comes back as
// StatusCode 0 and the caller classifies it as DOWN.
func (p *httpProber) Probe(ctx context.Context, target domain.Target) domain.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.Endpoint(), nil)
	if err != nil {
		return domain.ProbeResult{Err: err}
	}
	req.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return domain.ProbeResult{LatencyMS: latency, Err: err}
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return domain.ProbeResult{
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
	}
}
