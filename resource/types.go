package resource

// Handle is an opaque reference to a device resource in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Type ids for the device resources the runtime tracks.
const (
	TypeStream uint32 = iota + 1
	TypeContext
	TypeBuffer
)

// Dropper is implemented by values that need teardown when removed.
type Dropper interface {
	Drop()
}

// EventType identifies a resource lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event describes one resource lifecycle transition.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}
