package sim

// A BufferedSender is a tool that helps a component send messages without
// blocking the internal pipelines. Messages to send are held in an
// unbounded buffer until the port accepts them.
type BufferedSender interface {
	CanSend(n int) bool
	Send(msg Msg)
	Tick() bool
	Clear()
}

// NewBufferedSender creates a BufferedSender that sends messages through
// the given port.
func NewBufferedSender(port Port, buf Buffer) BufferedSender {
	s := &bufferedSender{
		port: port,
		buf:  buf,
	}

	return s
}

type bufferedSender struct {
	port Port
	buf  Buffer
}

// CanSend checks if the sender can hold n more messages.
func (s *bufferedSender) CanSend(n int) bool {
	return s.buf.Capacity()-s.buf.Size() >= n
}

// Send puts a message in the sending buffer. It must be called after
// CanSend confirms the room.
func (s *bufferedSender) Send(msg Msg) {
	if !s.buf.CanPush() {
		panic("buffer overflow, use CanSend before Send")
	}

	s.buf.Push(msg)
}

// Tick moves at most one message from the buffer to the port.
func (s *bufferedSender) Tick() bool {
	if s.buf.Size() == 0 {
		return false
	}

	msg := s.buf.Peek().(Msg)
	err := s.port.Send(msg)
	if err != nil {
		return false
	}

	s.buf.Pop()

	return true
}

// Clear removes all the messages to send.
func (s *bufferedSender) Clear() {
	s.buf.Clear()
}
