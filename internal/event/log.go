package event

// Reader is the read-only view of the log handed to modules.
type Reader interface {
	Last() Event
}

// Log is an append-only sequence of events. Entries are never removed; only
// the most recent one is observable.
type Log struct {
	events []Event
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{}
}

// Append adds e to the end of the log.
func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

// Last returns the most recently appended event, or None if the log is empty.
func (l *Log) Last() Event {
	if len(l.events) == 0 {
		return None
	}
	return l.events[len(l.events)-1]
}

// Len returns the number of events appended so far.
func (l *Log) Len() int {
	return len(l.events)
}
