package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// handshakeTimeout bounds the WebSocket dial
	handshakeTimeout = 10 * time.Second

	// reconnectDelay is the initial wait before redialing a dropped stream
	reconnectDelay = 1 * time.Second

	// maxReconnectDelay caps the reconnect backoff
	maxReconnectDelay = 30 * time.Second

	// eventBuffer is how many undelivered events are held before old
	// ones are dropped
	eventBuffer = 64
)

// Event is one message from the backend's live stream.
type Event struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventStream maintains a WebSocket connection to the backend, redialing
// with exponential backoff when the connection drops. Events arrive on
// the channel returned by Events until Close is called.
type EventStream struct {
	url    string
	dialer *websocket.Dialer
	log    *zap.Logger

	events chan Event

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool
	started   bool
	closed    bool
}

// NewEventStream creates a stream for the given ws:// or wss:// URL.
func NewEventStream(url string, log *zap.Logger) *EventStream {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventStream{
		url:    url,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		log:    log,
		events: make(chan Event, eventBuffer),
	}
}

// Events returns the channel events are delivered on. The channel is
// closed when the stream is closed.
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Connected reports whether a WebSocket connection is currently up.
func (s *EventStream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Connect starts the read loop. Calling Connect on a running or closed
// stream is a no-op.
func (s *EventStream) Connect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.run(ctx, s.done)
}

// Close tears the connection down and closes the event channel. Safe to
// call multiple times.
func (s *EventStream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	started := s.started
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if started {
		cancel()
		<-done
	}
	close(s.events)
}

func (s *EventStream) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	delay := reconnectDelay
	for {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Debug("event stream dial failed, retrying",
				zap.String("url", s.url),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
			continue
		}

		delay = reconnectDelay
		s.setConnected(true)
		s.readLoop(ctx, conn)
		s.setConnected(false)

		if ctx.Err() != nil {
			return
		}
	}
}

// readLoop reads events until the connection drops or the context is
// cancelled. The connection is closed on return.
func (s *EventStream) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	// Unblock ReadMessage when the stream is shut down.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.log.Debug("event stream read failed", zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			s.log.Warn("dropping malformed event", zap.Error(err))
			continue
		}

		select {
		case s.events <- event:
		default:
			// Receiver is behind; drop the oldest event to keep the
			// stream moving.
			select {
			case <-s.events:
			default:
			}
			select {
			case s.events <- event:
			default:
			}
		}
	}
}

func (s *EventStream) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
