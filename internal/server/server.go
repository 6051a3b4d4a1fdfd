package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/observability/log"
)

// Server streams predicted contacts from an event bus to websocket clients.
type Server struct {
	bus      bus.EventBus
	sub      bus.Subscription
	observer *deliveryObserver

	httpServer *http.Server
	listener   net.Listener

	// Client management
	mu          sync.RWMutex
	clients     map[*client]struct{}
	clientCount int64 // atomic
	contacts    uint64
	dropped     uint64

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	config Config
	logger log.Log

	workerGroup sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	ListenAddr string
	MaxClients int

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration
	// SendBuffer is the per-client queue; contacts for a full queue are dropped.
	SendBuffer int
	// ShutdownTimeout bounds the graceful HTTP shutdown in Stop.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		MaxClients:      1000,
		WriteTimeout:    5 * time.Second,
		SendBuffer:      256,
		ShutdownTimeout: 5 * time.Second,
	}
}

// NewServer creates a server reading contacts from eventBus.
func NewServer(config Config, eventBus bus.EventBus, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	def := DefaultServerConfig()
	if config.SendBuffer <= 0 {
		config.SendBuffer = def.SendBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}

	s := &Server{
		bus:     eventBus,
		clients: make(map[*client]struct{}),
		config:  config,
		logger:  logger.With(log.String("component", "server")),
	}
	s.observer = &deliveryObserver{logger: s.logger}

	s.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients))

	return s
}

// Start subscribes to contacts and starts serving. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	s.logger.Info("Starting server")

	if err := s.bus.CreateTopic(collision.Topic); err != nil {
		atomic.StoreInt32(&s.running, 0)
		return err
	}
	sub, err := s.bus.SubscribeTopic(collision.Topic, collision.EventPredicted, s.onContact)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		return err
	}
	s.sub = sub
	s.bus.AddObserver(s.observer)

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		_ = s.bus.Unsubscribe(sub)
		s.bus.RemoveObserver(s.observer)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Stop unsubscribes from the bus, disconnects every client and waits for
// the serving goroutines to exit.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	err := s.bus.Unsubscribe(s.sub)
	s.bus.RemoveObserver(s.observer)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	// hijacked websocket connections are not tracked by Shutdown
	err = errors.Join(err, s.httpServer.Shutdown(shutdownCtx))

	s.mu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.mu.Unlock()

	s.workerGroup.Wait()

	s.logger.Info("Server stopped",
		log.Uint64("contacts", atomic.LoadUint64(&s.contacts)),
		log.Uint64("dropped", atomic.LoadUint64(&s.dropped)))
	return err
}

// Close stops the server if needed; a closed server cannot be started again.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		return s.Stop(context.Background())
	}
	return nil
}

// Handler exposes the routes for embedding or httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Addr is the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Clients() int { return int(atomic.LoadInt64(&s.clientCount)) }

// Health is the /healthz payload.
type Health struct {
	Status   string    `json:"status"`
	Clients  int       `json:"clients"`
	Contacts uint64    `json:"contacts"`
	Dropped  uint64    `json:"dropped"`
	Bus      BusHealth `json:"bus"`
}

// BusHealth reports deliveries counted while the server was observing the bus.
type BusHealth struct {
	Published   uint64       `json:"published"`
	Delivered   uint64       `json:"delivered"`
	Errors      uint64       `json:"errors"`
	Subscribers uint64       `json:"subscribers"`
	Topics      []TopicStats `json:"topics"`
}

type TopicStats struct {
	Name        string `json:"name"`
	EventTypes  int    `json:"event_types"`
	Subscribers int    `json:"subscribers"`
}

func (s *Server) health() Health {
	m := s.bus.GetMetrics()
	topics := s.bus.GetTopics()
	stats := make([]TopicStats, 0, len(topics))
	for _, t := range topics {
		stats = append(stats, TopicStats{Name: t.Name, EventTypes: t.EventTypes, Subscribers: t.Subs})
	}
	return Health{
		Status:   "ok",
		Clients:  s.Clients(),
		Contacts: atomic.LoadUint64(&s.contacts),
		Dropped:  atomic.LoadUint64(&s.dropped),
		Bus: BusHealth{
			Published:   m.Published,
			Delivered:   m.DeliveredHandlers,
			Errors:      m.Errors,
			Subscribers: m.SubscribersActive,
			Topics:      stats,
		},
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.health())
}

// deliveryObserver logs failed deliveries; attaching it also turns on bus metrics.
type deliveryObserver struct {
	logger log.Log
}

func (o *deliveryObserver) OnPublish(string, string, bus.Event) {}

func (o *deliveryObserver) OnDelivered(topic, eventType string, handlers int, err error, d time.Duration) {
	if err == nil {
		return
	}
	o.logger.Warn("Event delivery failed",
		log.String("topic", topic),
		log.String("event_type", eventType),
		log.Int("handlers", handlers),
		log.Duration("duration", d),
		log.Error(err))
}
