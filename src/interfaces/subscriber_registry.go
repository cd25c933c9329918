package interfaces

// -----------------------------------------------------------------------------
// ISubscriberRegistry tracks dashboard sessions and fans payloads out to them.
// -----------------------------------------------------------------------------

type ISubscriberRegistry interface {

	// Add registers a session at the end of the delivery order.
	Add(session ISession)

	// -----------------------------------------------------------------------------

	// Broadcast serializes payload once and sends it to every registered session,
	// forgetting those whose send fails. It returns the number of successful sends.
	Broadcast(payload interface{}) (int, error)

	// -----------------------------------------------------------------------------

	// Count returns the number of registered sessions.
	Count() int
}
