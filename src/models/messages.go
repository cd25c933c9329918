package models

// -----------------------------------------------------------------------------
// Wire payloads exchanged over the /ws endpoint
// -----------------------------------------------------------------------------

const (
	LoginStatusSuccess = "success"

	UsernameWorker    = "bot"
	UsernameDashboard = "dashboard"

	// ShutdownSentinel is the text frame that tells a worker to stop.
	ShutdownSentinel = "c"
)

// MLoginRequest is the first text frame of every connection.
type MLoginRequest struct {
	Username string `json:"username"`
}

// MLoginResponse is sent once per successful login.
type MLoginResponse struct {
	Status string `json:"status"`
	Cmd    string `json:"cmd"`
}

// MPriceUpdate is produced by workers and fanned out to dashboards.
// Upstream quote endpoints answer with the same shape.
type MPriceUpdate struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}
