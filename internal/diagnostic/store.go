package diagnostic

// Store holds the messages and raw output of one build run.
type Store struct {
	messages []*Message
	counts   [SeverityPlain + 1]int
	output   []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Reset discards everything from the previous run.
func (s *Store) Reset() {
	s.messages = nil
	s.counts = [SeverityPlain + 1]int{}
	s.output = nil
}

// Append adds a message.
func (s *Store) Append(m *Message) {
	s.messages = append(s.messages, m)
}

// Last returns the most recent message, or nil.
func (s *Store) Last() *Message {
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// Len returns the number of messages.
func (s *Store) Len() int {
	return len(s.messages)
}

// At returns the message at index, or nil when out of range.
func (s *Store) At(index int) *Message {
	if index < 0 || index >= len(s.messages) {
		return nil
	}
	return s.messages[index]
}

// Rows returns the screen height of the message at index.
func (s *Store) Rows(index int) int {
	if m := s.At(index); m != nil {
		return m.Rows()
	}
	return 0
}

// Count returns how many lines of a severity were seen.
func (s *Store) Count(severity Severity) int {
	if severity < 0 || int(severity) >= len(s.counts) {
		return 0
	}
	return s.counts[severity]
}

func (s *Store) increment(severity Severity) {
	s.counts[severity]++
}

// AppendOutput records a raw line from either stream.
func (s *Store) AppendOutput(line string) {
	s.output = append(s.output, line)
}

// Output returns every raw line in arrival order.
func (s *Store) Output() []string {
	return s.output
}

// Tail returns up to n of the most recent raw lines.
func (s *Store) Tail(n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(s.output) {
		return s.output
	}
	return s.output[len(s.output)-n:]
}
