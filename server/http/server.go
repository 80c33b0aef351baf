package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/w-h-a/minutes/composer"
	"github.com/w-h-a/minutes/internal/service/pipeline"
	"github.com/w-h-a/minutes/server"
	"github.com/w-h-a/minutes/store"
)

// TeamHeader carries the tenant identifier resolved by the auth layer in
// front of this service. Every data route requires it.
const TeamHeader = "X-Team-Id"

type httpServer struct {
	options  server.Options
	store    store.Store
	pipeline *pipeline.Service
	composer *composer.Composer
	srv      *http.Server
}

func (s *httpServer) Run() error {
	slog.Info("http server listening", "address", s.options.Address)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *httpServer) routes() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", s.handleGetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", s.handleDeleteProject).Methods(http.MethodDelete)

	api.HandleFunc("/meetings", s.handleCreateMeeting).Methods(http.MethodPost)
	api.HandleFunc("/meetings", s.handleListMeetings).Methods(http.MethodGet)
	api.HandleFunc("/meetings/{id}", s.handleGetMeeting).Methods(http.MethodGet)

	api.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost)

	return router
}

func (s *httpServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(body.Title)) == 0 {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	id, err := s.store.CreateProject(r.Context(), store.Project{
		TeamId:      teamId,
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create project", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *httpServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	projects, err := s.store.ListProjects(r.Context(), teamId)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *httpServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	project, err := s.store.GetProject(r.Context(), teamId, mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found or not accessible")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get project", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (s *httpServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteProject(r.Context(), teamId, mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found or not accessible")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to delete project", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *httpServer) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		ProjectId  string `json:"project_id"`
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(body.ProjectId) == 0 {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	if len(strings.TrimSpace(body.Transcript)) == 0 {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	// accessibility check doubles as the tenant check
	if _, err := s.store.GetProject(r.Context(), teamId, body.ProjectId); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found or not accessible")
			return
		}
		slog.ErrorContext(r.Context(), "failed to verify project", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify project")
		return
	}

	id, err := s.store.CreateMeeting(r.Context(), store.Meeting{
		ProjectId:  body.ProjectId,
		Transcript: body.Transcript,
		Status:     store.StatusPending,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create meeting", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}

	// one deferred unit of work per meeting; the pipeline records failures
	// on the meeting status itself
	go func() {
		_ = s.pipeline.ProcessMeeting(context.Background(), teamId, id)
	}()

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": "meeting transcript received and processing started",
	})
}

func (s *httpServer) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	var opts []store.ListOption
	if projectId := r.URL.Query().Get("project_id"); len(projectId) > 0 {
		opts = append(opts, store.WithProjectId(projectId))
	}

	meetings, err := s.store.ListMeetings(r.Context(), teamId, opts...)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list meetings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"meetings": meetings})
}

func (s *httpServer) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	meeting, err := s.store.GetMeeting(r.Context(), teamId, mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "meeting not found or not accessible")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get meeting", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      meeting.Id,
		"title":   meeting.Title,
		"status":  meeting.Status,
		"summary": meeting.Summary,
	})
}

func (s *httpServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	teamId, ok := teamFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(body.Query)) == 0 {
		writeError(w, http.StatusBadRequest, "no query provided")
		return
	}

	answer, err := s.composer.Answer(r.Context(), teamId, body.Query)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to answer query", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func teamFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	teamId := r.Header.Get(TeamHeader)
	if len(teamId) == 0 {
		writeError(w, http.StatusBadRequest, "team id is required")
		return "", false
	}
	return teamId, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func NewServer(
	store store.Store,
	pipeline *pipeline.Service,
	composer *composer.Composer,
	opts ...server.Option,
) server.Server {
	if store == nil {
		panic("store is required")
	}

	if pipeline == nil {
		panic("pipeline is required")
	}

	if composer == nil {
		panic("composer is required")
	}

	options := server.NewOptions(opts...)

	s := &httpServer{
		options:  options,
		store:    store,
		pipeline: pipeline,
		composer: composer,
	}

	var handler http.Handler = s.routes()

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	s.srv = &http.Server{
		Addr:              options.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}
