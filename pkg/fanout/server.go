// Package fanout runs the TCP broadcast socket that republishes
// encoded AIS sentences to every connected subscriber (spec §4.5).
package fanout

import (
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// outboxSize bounds how far a subscriber can lag before it's
	// evicted rather than stalling the publisher (spec §5: "a slow
	// subscriber must not block delivery to the others").
	outboxSize = 256
)

// Server accepts TCP subscribers and broadcasts published sentences to
// all of them in the order Publish was called. A single mutex
// serializes publication with subscriber-set changes so every
// subscriber observes the same global order (spec §5, invariant I3).
type Server struct {
	Logger *log.Logger

	mu          sync.Mutex
	listener    net.Listener
	subscribers map[*subscriber]struct{}
	closed      bool

	evictLimiter *rate.Limiter
}

// NewServer returns a Server ready to Listen.
func NewServer(logger *log.Logger) *Server {
	return &Server{
		Logger:       logger,
		subscribers:  make(map[*subscriber]struct{}),
		evictLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Listen binds addr and starts accepting subscribers in the
// background. Call Stop to shut down.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.logf("fanout: accept loop exiting: %v", err)
			return
		}
		s.addSubscriber(conn)
	}
}

func (s *Server) addSubscriber(conn net.Conn) {
	sub := &subscriber{
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(sub)
	go s.discardLoop(sub)
}

// writeLoop is the subscriber's single writer goroutine: all bytes
// sent to a given connection go through this one goroutine, so writes
// for one subscriber are never interleaved.
func (s *Server) writeLoop(sub *subscriber) {
	for {
		select {
		case data, ok := <-sub.outbox:
			if !ok {
				return
			}
			if _, err := sub.conn.Write(data); err != nil {
				s.removeSubscriber(sub)
				return
			}
		case <-sub.done:
			return
		}
	}
}

// discardLoop reads (and discards) anything the subscriber sends, the
// standard way of noticing a half-closed TCP peer promptly.
func (s *Server) discardLoop(sub *subscriber) {
	buf := make([]byte, 256)
	for {
		if _, err := sub.conn.Read(buf); err != nil {
			s.removeSubscriber(sub)
			return
		}
	}
}

// Publish sends data to every connected subscriber. Subscribers whose
// outbox is full are evicted rather than allowed to block this call
// (spec §5).
func (s *Server) Publish(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subscribers {
		select {
		case sub.outbox <- data:
		default:
			s.evictLocked(sub, "slow subscriber: outbox full")
		}
	}
}

func (s *Server) removeSubscriber(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(sub, "subscriber disconnected")
}

// evictLocked must be called with s.mu held.
func (s *Server) evictLocked(sub *subscriber, reason string) {
	if _, ok := s.subscribers[sub]; !ok {
		return
	}
	delete(s.subscribers, sub)
	sub.closeOnce.Do(func() {
		close(sub.done)
		sub.conn.Close()
	})
	if s.evictLimiter.Allow() {
		s.logf("fanout: %s", reason)
	}
}

// Addr returns the listener's bound address. Only valid after Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Count reports the number of currently connected subscribers.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// Stop closes the listener and every subscriber connection. It is
// idempotent.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.listener
	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.subscribers = make(map[*subscriber]struct{})
	s.mu.Unlock()

	for _, sub := range subs {
		sub.closeOnce.Do(func() {
			close(sub.done)
			sub.conn.Close()
		})
	}
	if ln != nil {
		return ln.Close()
	}
	return nil
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.Logger == nil {
		return
	}
	s.Logger.Printf(format, args...)
}

type subscriber struct {
	conn      net.Conn
	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}
