package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/breath"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/guidance"
	"github.com/aretw0/qiscreen/pkg/screening"
	"github.com/aretw0/qiscreen/pkg/shield"
	"github.com/go-chi/chi/v5"
)

// Engine is the part of qiscreen.Engine the server drives.
type Engine interface {
	Graph() *domain.QuestionGraph
	StartSession(ctx context.Context) (qiscreen.Snapshot, error)
	Session(ctx context.Context, id string) (qiscreen.Snapshot, error)
	EndSession(ctx context.Context, id string) error
	Submit(ctx context.Context, id string, optionIndex int) (screening.Outcome, qiscreen.Snapshot, error)
	Undo(ctx context.Context, id string) (bool, qiscreen.Snapshot, error)
	Assess(ctx context.Context, id string) (*qiscreen.Assessment, error)
	Release(ctx context.Context, id string, actions domain.UserActions) (qiscreen.ReleaseResult, error)
	Guide(ctx context.Context, id domain.ShieldID) (shield.Guidance, error)
	Suggest(qi domain.QiVector, lumin domain.LuminVector, rhythm string, opts guidance.Options) []guidance.Suggestion
	Watch(ctx context.Context) (<-chan string, error)
}

var _ Engine = (*qiscreen.Engine)(nil)

// Server holds the HTTP handlers.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	logger  *slog.Logger
	metrics http.Handler
	reloads reloadFeed
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h under /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeReloads)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/answers", s.SubmitAnswer)
			r.Post("/undo", s.Undo)
			r.Get("/assessment", s.GetAssessment)
			r.Post("/release", s.Release)
			r.Get("/events", s.SubscribeSession)
		})
	})

	r.Get("/shields/{shield}/guidance", s.GetShieldGuidance)
	r.Post("/breath", s.ComputeBreath)
	r.Post("/shield-check", s.ShieldCheck)
	r.Post("/guidance", s.SelectGuidance)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "qiscreen-http",
		"version": strings.TrimSpace(qiscreen.Version),
	})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Graph().Questions())
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.StartSession(r.Context())
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnswerRequest is the body of POST /sessions/{id}/answers.
type AnswerRequest struct {
	Option *int `json:"option"`
}

// AnswerResponse reports what an answer did.
type AnswerResponse struct {
	Outcome screening.Outcome `json:"outcome"`
	Session qiscreen.Snapshot `json:"session"`
}

// SubmitAnswer handles the POST /sessions/{id}/answers request.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	if !s.decode(w, r, "SubmitAnswer", &body) {
		return
	}
	if body.Option == nil {
		http.Error(w, "Invalid request body: option is required", http.StatusBadRequest)
		return
	}

	outcome, snap, err := s.Engine.Submit(r.Context(), chi.URLParam(r, "id"), *body.Option)
	if err != nil {
		s.fail(w, "SubmitAnswer", err)
		return
	}
	s.broadcast(snap.ID, "answer", snap)
	s.writeJSON(w, http.StatusOK, AnswerResponse{Outcome: outcome, Session: snap})
}

// UndoResponse reports an undo attempt.
type UndoResponse struct {
	Undone  bool              `json:"undone"`
	Session qiscreen.Snapshot `json:"session"`
}

// Undo handles the POST /sessions/{id}/undo request.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	ok, snap, err := s.Engine.Undo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "Undo", err)
		return
	}
	if ok {
		s.broadcast(snap.ID, "undo", snap)
	}
	s.writeJSON(w, http.StatusOK, UndoResponse{Undone: ok, Session: snap})
}

// GetAssessment handles the GET /sessions/{id}/assessment request.
func (s *Server) GetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := s.Engine.Assess(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetAssessment", err)
		return
	}
	s.broadcast(a.SessionID, "assessment", a)
	s.writeJSON(w, http.StatusOK, a)
}

// Release handles the POST /sessions/{id}/release request.
func (s *Server) Release(w http.ResponseWriter, r *http.Request) {
	var body domain.UserActions
	if !s.decode(w, r, "Release", &body) {
		return
	}
	id := chi.URLParam(r, "id")
	res, err := s.Engine.Release(r.Context(), id, body)
	if err != nil {
		s.fail(w, "Release", err)
		return
	}
	s.broadcast(id, "release", res)
	s.writeJSON(w, http.StatusOK, res)
}

// GetShieldGuidance handles the GET /shields/{shield}/guidance request.
func (s *Server) GetShieldGuidance(w http.ResponseWriter, r *http.Request) {
	g, err := s.Engine.Guide(r.Context(), domain.ShieldID(chi.URLParam(r, "shield")))
	if err != nil {
		s.fail(w, "GetShieldGuidance", err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

// BreathRequest is the body of POST /breath.
type BreathRequest struct {
	Qi    []float64          `json:"qi"`
	Lumin map[string]float64 `json:"lumin"`
}

// ComputeBreath handles the POST /breath request.
func (s *Server) ComputeBreath(w http.ResponseWriter, r *http.Request) {
	var body BreathRequest
	if !s.decode(w, r, "ComputeBreath", &body) {
		return
	}
	b, err := breath.Compute(body.Qi, body.Lumin)
	if err != nil {
		s.fail(w, "ComputeBreath", err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

// ShieldCheck handles the POST /shield-check request.
func (s *Server) ShieldCheck(w http.ResponseWriter, r *http.Request) {
	var body shield.CheckRequest
	if !s.decode(w, r, "ShieldCheck", &body) {
		return
	}
	res, err := shield.Check(body)
	if err != nil {
		s.fail(w, "ShieldCheck", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GuidanceRequest is the body of POST /guidance. Vectors are keyed by dimension name;
// missing dimensions count as zero.
type GuidanceRequest struct {
	Qi       map[string]float64 `json:"qi"`
	Lumin    map[string]float64 `json:"lumin"`
	Rhythm   string             `json:"rhythm"`
	MaxCount int                `json:"max_count"`
	Tags     []string           `json:"tags"`
}

// SelectGuidance handles the POST /guidance request.
func (s *Server) SelectGuidance(w http.ResponseWriter, r *http.Request) {
	var body GuidanceRequest
	if !s.decode(w, r, "SelectGuidance", &body) {
		return
	}
	if kind, _ := domain.LookupDimension(body.Rhythm); kind != domain.DimensionRhythm {
		s.fail(w, "SelectGuidance", &domain.ContractError{Field: "rhythm", Reason: fmt.Sprintf("unknown rhythm %q", body.Rhythm)})
		return
	}

	var qi domain.QiVector
	for name, v := range body.Qi {
		kind, i := domain.LookupDimension(name)
		if kind != domain.DimensionQi {
			s.fail(w, "SelectGuidance", &domain.ContractError{Field: "qi." + name, Reason: "unknown dimension"})
			return
		}
		qi[i] = v
	}
	var lumin domain.LuminVector
	for name, v := range body.Lumin {
		kind, i := domain.LookupDimension(name)
		if kind != domain.DimensionLumin {
			s.fail(w, "SelectGuidance", &domain.ContractError{Field: "lumin." + name, Reason: "unknown channel"})
			return
		}
		lumin[i] = v
	}

	out := s.Engine.Suggest(qi, lumin, body.Rhythm, guidance.Options{MaxCount: body.MaxCount, Tags: body.Tags})
	s.writeJSON(w, http.StatusOK, out)
}

// SubscribeReloads handles the GET /events request (SSE): one event per bank reload.
// Every subscriber shares one engine watch.
func (s *Server) SubscribeReloads(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	ch, cancel := s.Streams.Subscribe(reloadStream)
	defer cancel()
	if err := s.acquireReloads(); err != nil {
		s.fail(w, "SubscribeReloads", err)
		return
	}
	defer s.releaseReloads()

	startStream(w, flusher)
	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprint(w, msg)
			flusher.Flush()
		}
	}
}

// reloadStream is the StreamManager key for bank reloads. It never collides with a
// session ID.
const reloadStream = "*"

// reloadFeed refcounts the engine watch behind /events.
type reloadFeed struct {
	mu     sync.Mutex
	refs   int
	cancel context.CancelFunc
}

func (s *Server) acquireReloads() error {
	s.reloads.mu.Lock()
	defer s.reloads.mu.Unlock()

	if s.reloads.refs == 0 {
		ctx, cancel := context.WithCancel(context.Background())
		events, err := s.Engine.Watch(ctx)
		if err != nil {
			cancel()
			return err
		}
		s.reloads.cancel = cancel
		s.logger.Info("SSE: watching bank for reload subscribers")
		go s.forwardReloads(events)
	}
	s.reloads.refs++
	return nil
}

func (s *Server) releaseReloads() {
	s.reloads.mu.Lock()
	defer s.reloads.mu.Unlock()

	s.reloads.refs--
	if s.reloads.refs == 0 && s.reloads.cancel != nil {
		s.reloads.cancel()
		s.reloads.cancel = nil
	}
}

func (s *Server) forwardReloads(events <-chan string) {
	for name := range events {
		s.Streams.Broadcast(reloadStream, fmt.Sprintf("event: reload\ndata: %s\n\n", name))
	}
}

// SubscribeSession handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := s.Engine.Session(r.Context(), id); err != nil {
		s.fail(w, "SubscribeSession", err)
		return
	}

	s.logger.Info("SSE: subscribing to session updates", "session", id)
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	startStream(w, flusher)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprint(w, msg)
			flusher.Flush()
		}
	}
}

func startStream(w http.ResponseWriter, flusher http.Flusher) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
}

// -- Helpers --

func (s *Server) broadcast(sessionID, event string, v any) {
	if s.Streams.Count(sessionID) == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("SSE payload encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(sessionID, fmt.Sprintf("event: %s\ndata: %s\n\n", event, data))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn(op+": invalid request body", "err", err)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrUnknownShield):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrContractViolation), errors.Is(err, screening.ErrInvalidConfig):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, qiscreen.ErrWatchUnsupported):
		status = http.StatusNotImplemented
	default:
		status = http.StatusInternalServerError
		s.logger.Error(op+" failed", "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}
