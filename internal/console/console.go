// Package console keeps the raw-text side of the stream: a fixed-capacity,
// append-only ring of the lines exactly as they arrived, for the console
// view. Same ring idea as the plot engine, far less machinery.
package console

// DefaultCapacity is the number of raw lines kept when none is configured.
const DefaultCapacity = 2000

// Log is a fixed-size circular buffer of raw input lines.
type Log struct {
	lines []string
	head  int // next write position
	count int
	total int // lines ever appended
}

// New creates a Log retaining up to capacity lines.
func New(capacity int) *Log {
	if capacity < 0 {
		capacity = 0
	}
	return &Log{lines: make([]string, capacity)}
}

// Append adds one raw line, evicting the oldest when full.
func (l *Log) Append(line string) {
	l.total++
	if len(l.lines) == 0 {
		return
	}
	l.lines[l.head] = line
	l.head = (l.head + 1) % len(l.lines)
	if l.count < len(l.lines) {
		l.count++
	}
}

// Lines returns the retained lines in chronological order (oldest first).
func (l *Log) Lines() []string {
	if l.count == 0 {
		return nil
	}
	out := make([]string, l.count)
	start := (l.head - l.count + len(l.lines)) % len(l.lines)
	for i := 0; i < l.count; i++ {
		out[i] = l.lines[(start+i)%len(l.lines)]
	}
	return out
}

// Tail returns the newest n lines, oldest first.
func (l *Log) Tail(n int) []string {
	lines := l.Lines()
	if n >= len(lines) {
		return lines
	}
	if n <= 0 {
		return nil
	}
	return lines[len(lines)-n:]
}

// Len returns the number of retained lines.
func (l *Log) Len() int { return l.count }

// Total returns the number of lines ever appended.
func (l *Log) Total() int { return l.total }

// Resize changes the capacity, keeping the newest lines.
func (l *Log) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity == len(l.lines) {
		return
	}
	keep := l.Tail(capacity)
	l.lines = make([]string, capacity)
	l.head = 0
	l.count = 0
	for _, line := range keep {
		if len(l.lines) == 0 {
			break
		}
		l.lines[l.head] = line
		l.head = (l.head + 1) % len(l.lines)
		l.count++
	}
}
