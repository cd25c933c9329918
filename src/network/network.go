package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"price-relay/src/helpers"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/models"
)

const maxBodySize = 1 << 20

type AsyncNetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Logger       *logger.Logger

	mu     sync.RWMutex
	client *http.Client
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	nm := &AsyncNetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(cfg.Network.Proxies, cfg.Network.UserAgent, log.Named("ProxyManager")),
		Logger:       log,
	}
	nm.client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyStr := nm.ProxyManager.GetCurrentProxy(); proxyStr != "" {
		if proxyURL, err := url.Parse(proxyStr); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) rotateProxy() {
	if !nm.ProxyManager.HasProxies() {
		return
	}

	nm.ProxyManager.RotateProxy()
	client := nm.createClient()

	nm.mu.Lock()
	nm.client = client
	nm.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) httpClient() *http.Client {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	return nm.client
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and proxy rotation. Every failure
// is returned as an UpstreamError.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewUpstreamError("invalid url", err)
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqUrl.RawQuery = q.Encode()
	finalUrl := reqUrl.String()

	maxRetries := nm.Config.Network.MaxRetries
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Quadratic backoff, cut short by cancellation
			select {
			case <-ctx.Done():
				return nil, helpers.NewUpstreamError("request cancelled", ctx.Err())
			case <-time.After(time.Duration(i*i) * 100 * time.Millisecond):
			}
			nm.rotateProxy()
		}

		body, retry, err := nm.do(ctx, finalUrl)
		if err == nil {
			return body, nil
		}
		lastErr = err
		nm.Logger.Debug("Request failed (attempt %d/%d): %v", i+1, maxRetries+1, err)
		if !retry {
			break
		}
	}

	return nil, helpers.NewUpstreamError(fmt.Sprintf("GET %s failed", reqUrl.Path), lastErr)
}

// -----------------------------------------------------------------------------

// do runs one attempt and reports whether another attempt could help.
func (nm *AsyncNetworkManager) do(ctx context.Context, finalUrl string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := nm.httpClient().Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, true, fmt.Errorf("blocked (status %d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("bad status: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
