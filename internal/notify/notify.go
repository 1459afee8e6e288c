package notify

// Level tags a user-facing message.
type Level int32

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Message is a tagged notification. Rendering is the consumer's concern.
type Message struct {
	Level       Level
	Title       string
	Description string
}

// Notifier receives success/failure signals for user-visible feedback.
type Notifier interface {
	Notify(msg Message)
}

// Sink is a channel-backed Notifier. Messages are dropped when the buffer is
// full so a slow consumer can never block the delivery path.
type Sink struct {
	ch chan Message
}

// NewSink creates a Sink with the given buffer size.
func NewSink(buffer int) *Sink {
	if buffer <= 0 {
		buffer = 16
	}

	return &Sink{ch: make(chan Message, buffer)}
}

func (s *Sink) Notify(msg Message) {
	select {
	case s.ch <- msg:
	default:
	}
}

// Messages exposes the delivery channel for the UI consumer.
func (s *Sink) Messages() <-chan Message {
	return s.ch
}

// Discard is a Notifier that drops every message.
type Discard struct{}

func (Discard) Notify(Message) {}
