// Package httpapi exposes the REST and websocket surface of the service:
// session lifecycle, the utterance endpoint, booking lookups, and the
// operational endpoints (health, metrics, latency snapshot).
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/antoniostano/butler/internal/booking"
	"github.com/antoniostano/butler/internal/config"
	"github.com/antoniostano/butler/internal/dialog"
	"github.com/antoniostano/butler/internal/observability"
	"github.com/antoniostano/butler/internal/protocol"
	"github.com/antoniostano/butler/internal/session"
)

// Dialog handles one conversation turn.
type Dialog interface {
	HandleUtterance(ctx context.Context, sessionID, text string, now time.Time) dialog.Response
}

// Directory exposes booking lookups and the service catalog.
type Directory interface {
	Lookup(ctx context.Context, id string) (booking.Booking, error)
	Services() []string
}

type Server struct {
	cfg      config.Config
	sessions *session.Store
	dialog   Dialog
	bookings Directory
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Store, dlg Dialog, bookings Directory, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		dialog:   dlg,
		bookings: bookings,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other sites cannot drive a user's session
				// if the service is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	r.Post("/v1/sessions", s.handleCreateSession)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Post("/v1/sessions/{id}/end", s.handleEndSession)
	r.Get("/v1/session/ws", s.handleSessionWS)

	r.Post("/v1/utterance", s.handleUtterance)
	r.Get("/v1/bookings/{id}", s.handleGetBooking)
	r.Get("/v1/services", s.handleListServices)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = uuid.NewString()
	}

	sess := s.sessions.GetOrCreate(req.SessionID, time.Now().UTC())
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("created").Inc()
	}

	respondJSON(w, http.StatusCreated, session.CreateResponse{
		SessionID:      sess.ID,
		Awake:          sess.Awake,
		StartedAt:      sess.StartedAt,
		LastActivityAt: sess.LastActivityAt,
		TimeoutMS:      s.cfg.SessionTimeout.Milliseconds(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	sess, err := s.sessions.Delete(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ended").Inc()
		s.metrics.AwakeSessions.Set(float64(s.sessions.AwakeCount()))
	}
	respondJSON(w, http.StatusOK, sess)
}

// UtteranceRequest is the REST body for one dialog turn.
type UtteranceRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func (s *Server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	var req UtteranceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return
	}

	resp := s.dialog.HandleUtterance(r.Context(), req.SessionID, req.Text, time.Now().UTC())
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := s.bookings.Lookup(r.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			respondError(w, http.StatusNotFound, "booking_not_found", "no booking with id "+id)
			return
		}
		respondError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleListServices(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"services": s.bookings.Services(),
	})
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}
	if _, err := s.sessions.Get(sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbound := make(chan any, 256)

	// Single writer goroutine; the read loop never touches the connection's
	// write side.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					if s.metrics != nil {
						s.metrics.WSWriteErrors.WithLabelValues("write_json").Inc()
					}
					cancel()
					return
				}
				if t, ok := messageTypeOf(msg); ok && s.metrics != nil {
					s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
				}
			}
		}
	}()

	send := func(msg any) {
		select {
		case outbound <- msg:
		default:
			// Keep websocket writes single-threaded; drop when saturated.
			if s.metrics != nil {
				s.metrics.WSWriteErrors.WithLabelValues("queue_full").Inc()
			}
		}
	}

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			send(protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Retryable: false,
				Detail:    err.Error(),
			})
			continue
		}
		if t, ok := messageTypeOf(parsed); ok && s.metrics != nil {
			s.metrics.WSMessages.WithLabelValues("inbound", string(t)).Inc()
		}

		switch msg := parsed.(type) {
		case protocol.ClientUtterance:
			if msg.SessionID != sessionID {
				send(protocol.ErrorEvent{
					Type:      protocol.TypeErrorEvent,
					SessionID: sessionID,
					Code:      "session_mismatch",
					Retryable: false,
					Detail:    "utterance session_id does not match the connection",
				})
				continue
			}
			resp := s.dialog.HandleUtterance(ctx, sessionID, msg.Text, time.Now().UTC())
			reply := protocol.ButlerReply{
				Type:      protocol.TypeButlerReply,
				SessionID: sessionID,
				SpeakText: resp.SpeakText,
				Outcome:   resp.Outcome,
				TSMs:      time.Now().UnixMilli(),
			}
			if resp.Session != nil {
				reply.Awake = resp.Session.Awake
			}
			send(reply)
		case protocol.ClientControl:
			switch msg.Action {
			case protocol.ActionPing:
				send(protocol.SystemEvent{
					Type:      protocol.TypeSystemEvent,
					SessionID: sessionID,
					Code:      "pong",
				})
			case protocol.ActionEndSession:
				_ = s.sessions.Sleep(sessionID, time.Now().UTC())
				send(protocol.SystemEvent{
					Type:      protocol.TypeSystemEvent,
					SessionID: sessionID,
					Code:      "session_ended",
				})
				break readLoop
			default:
				send(protocol.ErrorEvent{
					Type:      protocol.TypeErrorEvent,
					SessionID: sessionID,
					Code:      "unknown_action",
					Retryable: false,
					Detail:    msg.Action,
				})
			}
		}
	}

	cancel()
	<-writerDone
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.ClientUtterance:
		return m.Type, true
	case protocol.ClientControl:
		return m.Type, true
	case protocol.ButlerReply:
		return m.Type, true
	case protocol.SystemEvent:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
