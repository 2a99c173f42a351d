// Package dashboard serves the client stage tables and chat views over HTTP.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/client-dashboard/internal/chat"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/query"
)

// Options configures the dashboard.
type Options struct {
	Stage         query.StageOptions
	AllowedOrigin string
	Now           func() time.Time
}

// Server holds the dashboard's collaborators.
type Server struct {
	baseCtx  context.Context
	stages   StageSource
	chats    *chat.Builder
	sessions *chat.Registry
	streamer *chat.Streamer
	opts     Options
	tmpl     *template.Template
}

// New creates a Server. ctx bounds background reply streams.
func New(ctx context.Context, stages StageSource, chats *chat.Builder, sessions *chat.Registry, streamer *chat.Streamer, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		baseCtx:  ctx,
		stages:   stages,
		chats:    chats,
		sessions: sessions,
		streamer: streamer,
		opts:     opts,
		tmpl:     parseTemplates(),
	}
}

// Routes returns the dashboard's HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origin := s.opts.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/clients/{clientID}/chat", s.handleChat)
	r.Post("/clients/{clientID}/chat/messages", s.handleSendMessage)
	r.Get("/ws/sessions/{sessionID}", s.handleSessionSocket)
	r.Get("/api/clients", s.handleAPIClients)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listPage struct {
	PageTitle string
	Tables    []StageTable
}

type chatPage struct {
	PageTitle  string
	Transcript chat.Transcript
	SessionID  string
	SocketPath string
	RoleLabels map[model.Role]string
}

type errorPage struct {
	PageTitle string
	Error     string
}

// handleIndex renders the stage tables, or the chat view when the page is
// addressed with ?client_id=.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if raw, ok := r.URL.Query()["client_id"]; ok {
		s.renderChat(w, r, firstOrEmpty(raw))
		return
	}

	tables := LoadStageTables(r.Context(), s.stages, s.opts.Stage, s.opts.Now())
	s.render(w, http.StatusOK, "list.html", listPage{PageTitle: "Clients", Tables: tables})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.renderChat(w, r, chi.URLParam(r, "clientID"))
}

func (s *Server) renderChat(w http.ResponseWriter, r *http.Request, rawID string) {
	clientID, err := chat.ParseClientID(rawID)
	if err != nil {
		s.render(w, http.StatusBadRequest, "error.html", errorPage{
			PageTitle: "Invalid client",
			Error:     "Invalid client ID. Please provide a numeric client ID.",
		})
		return
	}

	transcript := s.chats.Transcript(r.Context(), clientID)
	sess := s.sessions.Create(clientID)

	s.render(w, http.StatusOK, "chat.html", chatPage{
		PageTitle:  "Chat with " + transcript.Client.ClientFullname,
		Transcript: transcript,
		SessionID:  sess.ID,
		SocketPath: "/ws/sessions/" + sess.ID,
		RoleLabels: map[model.Role]string{
			model.RoleClient:   RoleLabel(model.RoleClient),
			model.RoleSalesRep: RoleLabel(model.RoleSalesRep),
		},
	})
}

// handleSendMessage records the sales rep's message and starts the simulated
// client reply in the background.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	clientID, err := chat.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}

	sess := s.sessions.Get(r.PostForm.Get("session"))
	if sess == nil || sess.ClientID != clientID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	text := r.PostForm.Get("message")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	s.streamer.Send(sess, text)
	go func() {
		if _, err := s.streamer.Reply(s.baseCtx, sess, text); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Warn("dashboard: simulated reply stopped", zap.String("session", sess.ID), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"session": sess.ID,
	})
}

type clientsResponse struct {
	Title string                      `json:"title"`
	Rows  []model.NormalizedClientRow `json:"rows"`
	Error string                      `json:"error,omitempty"`
}

func (s *Server) handleAPIClients(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	if stage == "" {
		stage = query.GreaterThan.Slug()
	}
	cmp, err := query.ParseComparison(stage)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stage must be gt or lt"})
		return
	}

	table := LoadStageTable(r.Context(), s.stages, cmp, s.opts.Stage, s.opts.Now())
	resp := clientsResponse{Title: table.Title, Rows: table.Rows}
	if table.Failure != nil {
		resp.Error = table.Failure.Message()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("dashboard: write json", zap.Error(err))
	}
}

func firstOrEmpty(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
