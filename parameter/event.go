package parameter

// Event ring capacity; must be a power of two
const (
	EventQueueSize  = 256
	EventBufferMask = EventQueueSize - 1
)
