package common

// Event is implemented by all domain events published on the bus.
type Event interface {
	Type() string
}
