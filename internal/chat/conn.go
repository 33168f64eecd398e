package chat

import "sync"

// SafeConn serializes JSON writes to one underlying websocket connection.
// gorilla/websocket permits at most one concurrent writer per connection,
// while hub fan-out goroutines and direct acks from the socket handler can
// fire at the same time; every write path must go through the same lock.
type SafeConn struct {
	mu   sync.Mutex
	conn Conn
}

// NewSafeConn wraps a connection so concurrent writers take turns.
func NewSafeConn(conn Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON writes one JSON value while holding the connection's write lock.
func (s *SafeConn) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}
