package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ContactMessage is the JSON frame sent for each predicted contact.
type ContactMessage struct {
	Source      string     `json:"source"`
	Time        time.Time  `json:"time"`
	GroupA      string     `json:"group_a"`
	GroupB      string     `json:"group_b"`
	A           string     `json:"a"`
	B           string     `json:"b"`
	WillCollide bool       `json:"will_collide"`
	Contact     [3]float64 `json:"contact"`
	Distance    float64    `json:"distance"`
	Step        int        `json:"step"`
}

// NewContactMessage flattens a bus event into a frame.
func NewContactMessage(ev bus.Event, c collision.Contact) ContactMessage {
	p := c.Result.Contact
	return ContactMessage{
		Source:      ev.Source(),
		Time:        ev.Timestamp(),
		GroupA:      c.GroupA,
		GroupB:      c.GroupB,
		A:           label(c.A),
		B:           label(c.B),
		WillCollide: c.Result.WillCollide,
		Contact:     [3]float64{p.X, p.Y, p.Z},
		Distance:    c.Result.Distance,
		Step:        c.Result.Step,
	}
}

func label(c collision.Collider) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T@%p", c, c)
}

// client is one websocket subscriber. Writes happen only in writeLoop.
type client struct {
	id    string
	conn  *websocket.Conn
	group string
	send  chan []byte
	once  sync.Once
	done  chan struct{}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) wants(m ContactMessage) bool {
	return c.group == "" || c.group == m.GroupA || c.group == m.GroupB
}

// handleWebSocket upgrades and registers a client. The optional "group"
// query parameter restricts the stream to contacts involving that group.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxClients > 0 && s.Clients() >= s.config.MaxClients {
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:    uuid.NewString(),
		conn:  conn,
		group: r.URL.Query().Get("group"),
		send:  make(chan []byte, s.config.SendBuffer),
		done:  make(chan struct{}),
	}

	// Stop closes registered clients under s.mu, so a client registered
	// after that point would never be closed.
	s.mu.Lock()
	if atomic.LoadInt32(&s.running) == 0 {
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.Debug("Server stopping, connection dropped",
			log.String("remote_addr", conn.RemoteAddr().String()))
		return
	}
	s.clients[c] = struct{}{}
	atomic.AddInt64(&s.clientCount, 1)
	s.workerGroup.Add(2)
	s.mu.Unlock()

	s.logger.Info("Client connected",
		log.String("client_id", c.id),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.String("group", c.group),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))

	go s.writeLoop(c)
	go s.readLoop(c)
}

// readLoop drains client frames so close and ping control messages are processed.
func (s *Server) readLoop(c *client) {
	defer s.workerGroup.Done()
	defer s.disconnect(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer s.workerGroup.Done()
	defer s.disconnect(c)
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("Write failed", log.String("client_id", c.id), log.Error(err))
				return
			}
		}
	}
}

func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
	if !ok {
		return
	}
	atomic.AddInt64(&s.clientCount, -1)
	s.logger.Info("Client disconnected",
		log.String("client_id", c.id),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))
}

// onContact runs on the publishing goroutine and never blocks on a client.
func (s *Server) onContact(ev bus.Event) error {
	c, ok := collision.ContactFromEvent(ev)
	if !ok {
		return nil
	}
	atomic.AddUint64(&s.contacts, 1)

	msg := NewContactMessage(ev, c)
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode contact: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for cl := range s.clients {
		if !cl.wants(msg) {
			continue
		}
		select {
		case cl.send <- payload:
		default:
			atomic.AddUint64(&s.dropped, 1)
		}
	}
	return nil
}
