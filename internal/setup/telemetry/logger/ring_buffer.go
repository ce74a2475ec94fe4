package logger

// RingBuffer keeps the most recent lines written to a log file.
type RingBuffer struct {
	lines    []string
	capacity int
	next     int
	size     int
	// written counts lines added since the buffer was last flushed to disk.
	written int
}

// NewRingBuffer creates a ring buffer holding at most capacity lines.
func NewRingBuffer(capacity int) *RingBuffer {
	capacity = max(capacity, 1)

	return &RingBuffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// Add stores a line, overwriting the oldest one once full.
func (rb *RingBuffer) Add(line string) {
	rb.lines[rb.next] = line
	rb.next = (rb.next + 1) % rb.capacity
	rb.size = min(rb.size+1, rb.capacity)
	rb.written++
}

// Lines returns the buffered lines oldest first.
func (rb *RingBuffer) Lines() []string {
	if rb.size == 0 {
		return nil
	}

	result := make([]string, 0, rb.size)
	start := (rb.next - rb.size + rb.capacity) % rb.capacity

	for i := range rb.size {
		result = append(result, rb.lines[(start+i)%rb.capacity])
	}

	return result
}
