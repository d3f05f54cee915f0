package probe

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"migaudit/internal/model"
)

// userAgent is the fixed browser-like identity the spec requires for
// every outbound probe (§4.4): "Issue an HTTP GET with a fixed
// browser-like user agent". Unlike the teacher's rotating-UA sitemap
// fetcher (pkg/parser/http_client.go), the audit bot must present a
// single, identifiable agent string.
const userAgent = "Mozilla/5.0 (compatible; MigrationAuditBot/1.0; +https://example.com/bot)"

// httpProber issues single probes, following redirects itself (rather
// than relying on net/http's built-in follower) so every hop's status
// code can be recorded into the result's RedirectChain.
type httpProber struct {
	cfg    Config
	client *http.Client
}

func newHTTPProber(cfg Config) *httpProber {
	return &httpProber{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.timeout(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse // we follow redirects manually below
			},
		},
	}
}

// probeOnce issues a GET against targetURL, following redirects up to
// MaxRedirectHops when FollowRedirects is set, and never treating a
// non-2xx response as an error: any HTTP response produces a
// ProbeResult with that status (spec §4.4).
func (p *httpProber) probeOnce(ctx context.Context, targetURL string) model.ProbeResult {
	start := time.Now()
	result := model.ProbeResult{URL: targetURL, Timestamp: start}

	maxHops := p.cfg.MaxRedirectHops
	if maxHops <= 0 {
		maxHops = 10
	}

	currentURL := targetURL
	var chain []model.RedirectHop

	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, currentURL, nil)
		if err != nil {
			result.Error = err.Error()
			result.ResponseTimeMs = time.Since(start).Milliseconds()
			return result
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := p.client.Do(req)
		if err != nil {
			result.Error = err.Error()
			result.StatusCode = 0
			result.ResponseTimeMs = time.Since(start).Milliseconds()
			return result
		}

		isRedirectStatus := resp.StatusCode >= 300 && resp.StatusCode < 400
		location := resp.Header.Get("Location")

		if isRedirectStatus && p.cfg.FollowRedirects && location != "" && hop < maxHops {
			chain = append(chain, model.RedirectHop{URL: currentURL, StatusCode: resp.StatusCode, Index: hop})
			resp.Body.Close()
			currentURL = resolveLocation(currentURL, location)
			continue
		}

		result.StatusCode = resp.StatusCode
		result.StatusText = resp.Status
		result.FinalURL = currentURL
		result.IsRedirect = len(chain) > 0
		result.RedirectChain = chain
		result.ContentType = resp.Header.Get("Content-Type")
		result.Server = resp.Header.Get("Server")
		if cl := resp.Header.Get("Content-Length"); cl != "" {
			if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
				result.ContentLength = n
			}
		}
		resp.Body.Close()
		result.ResponseTimeMs = time.Since(start).Milliseconds()
		return result
	}
}

func resolveLocation(base, location string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return location
	}
	locURL, err := url.Parse(location)
	if err != nil {
		return location
	}
	return baseURL.ResolveReference(locURL).String()
}
