package poller

// State is the connection state of a PollingClient.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateLoggingIn
	StateActive
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateLoggingIn:
		return "logging_in"
	case StateActive:
		return "active"
	default:
		return "disconnected"
	}
}
