package statusapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

// TrackedCounter reports how many ICAO addresses are currently
// tracked. pkg/tracker.Table satisfies this.
type TrackedCounter interface {
	Len() int
}

// SubscriberCounter reports how many AIS fan-out subscribers are
// connected. pkg/fanout.Server satisfies this.
type SubscriberCounter interface {
	Count() int
}

// Server is the diagnostics HTTP server: /healthz, /status, and /ws.
type Server struct {
	tracker     TrackedCounter
	subscribers SubscriberCounter
	startedAt   time.Time
	auth        *authenticator
	hub         *hub
	upgrader    websocket.Upgrader
	handler     http.Handler
}

// New builds the status API. authToken, if non-empty, is the HMAC key
// protecting /status and /ws.
func New(tracker TrackedCounter, subscribers SubscriberCounter, authToken string) *Server {
	s := &Server{
		tracker:     tracker,
		subscribers: subscribers,
		startedAt:   time.Now(),
		auth:        newAuthenticator(authToken),
		hub:         newHub(),
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Get("/healthz", s.handleHealthz)
	r.With(s.auth.requireBearer).Get("/status", s.handleStatus)
	r.With(s.auth.requireBearer).Get("/ws", s.handleWebsocket)

	s.handler = r
	return s
}

// ServeHTTP lets Server plug directly into http.Server / httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Publish notifies every connected websocket client of a newly
// encoded sentence. Safe to call from the bridge's hot path; a slow
// client misses sentences rather than being allowed to apply
// backpressure.
func (s *Server) Publish(sentence string) {
	s.hub.broadcast(sentence)
}

type statusResponse struct {
	AircraftTracked int     `json:"aircraft_tracked"`
	Subscribers     int     `json:"subscribers"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		AircraftTracked: s.tracker.Len(),
		Subscribers:     s.subscribers.Count(),
		UptimeSeconds:   time.Since(s.startedAt).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	for sentence := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(sentence)); err != nil {
			return
		}
	}
}
