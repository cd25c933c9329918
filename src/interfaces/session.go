package interfaces

// -----------------------------------------------------------------------------
// ISession is the non-owning view of a live connection held by the registry.
// Holders may send on it and compare identities; they never close it.
// -----------------------------------------------------------------------------

type ISession interface {

	// ID returns the session's identity token.
	ID() string

	// -----------------------------------------------------------------------------

	// SendText queues one text frame. It fails when the connection is gone or
	// its outbound queue is full; it never blocks on the network.
	SendText(payload []byte) error
}
