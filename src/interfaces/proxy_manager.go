package interfaces

// -----------------------------------------------------------------------------
// IProxyManager rotates outbound proxies and picks request user agents.
// -----------------------------------------------------------------------------

type IProxyManager interface {

	// GetCurrentProxy returns the proxy URL in use, or "" for a direct connection.
	GetCurrentProxy() string

	// -----------------------------------------------------------------------------

	RotateProxy()

	// -----------------------------------------------------------------------------

	GetUserAgent() string

	// -----------------------------------------------------------------------------

	HasProxies() bool
}
