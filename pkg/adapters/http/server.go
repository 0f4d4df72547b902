package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/internal/presentation/layers"
	"github.com/aretw0/graficador/pkg/archive"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/editor"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/aretw0/graficador/pkg/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxUploadSize bounds image uploads.
const MaxUploadSize = 10 << 20

// Service is the part of the graficador facade the API needs.
type Service interface {
	CreateDesign(ctx context.Context, id, name string) (*domain.Design, error)
	Design(ctx context.Context, id string) (*domain.Design, error)
	Designs(ctx context.Context) ([]string, error)
	ReplaceDesign(ctx context.Context, design *domain.Design) error
	DeleteDesign(ctx context.Context, id string) error
	Edit(ctx context.Context, id string, fn func(*editor.Editor) error) (*domain.Design, error)
	Targets() []string
	Export(ctx context.Context, designID, target, project string) (*export.FileSet, error)
}

// Server serves the design API.
type Server struct {
	svc      Service
	streams  *StreamManager
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) (http.Handler, error) {
	s := &Server{
		svc:    svc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)

	_, router, err := loadSpec()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.validateRequests(router))

		r.Get("/health", s.getHealth)
		r.Get("/templates", s.listTemplates)
		r.Get("/targets", s.listTargets)

		r.Route("/designs", func(r chi.Router) {
			r.Get("/", s.listDesigns)
			r.Post("/", s.createDesign)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getDesign)
				r.Put("/", s.replaceDesign)
				r.Delete("/", s.deleteDesign)
				r.Get("/layers", s.getLayers)
				r.Get("/events", s.subscribe)

				r.Post("/shapes", s.addShape)
				r.Delete("/shapes/{shapeId}", s.deleteShape)
				r.Post("/shapes/{shapeId}/forward", s.moveForward)
				r.Post("/shapes/{shapeId}/backward", s.moveBackward)
				r.Put("/selection", s.selectShape)
				r.Post("/groups", s.groupShapes)
				r.Delete("/groups/{shapeId}", s.ungroupShapes)
				r.Post("/templates/{name}", s.insertTemplate)
				r.Post("/images", s.addImage)
				r.Get("/export/{target}", s.exportDesign)
			})
		})
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type nameList struct {
	Items []string `json:"items"`
}

type changed struct {
	Changed bool `json:"changed"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, nameList{Items: templates.Names()})
}

func (s *Server) listTargets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, nameList{Items: s.svc.Targets()})
}

func (s *Server) listDesigns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.Designs(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, nameList{Items: ids})
}

func (s *Server) createDesign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	design, err := s.svc.CreateDesign(r.Context(), body.ID, body.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, design)
}

func (s *Server) getDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	design, err := s.svc.Design(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, design)
}

func (s *Server) replaceDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var design domain.Design
	if !s.decode(w, r, &design) {
		return
	}
	// The path names the design; the body id is ignored.
	design.ID = id
	design.UpdatedAt = time.Time{}
	if err := s.svc.ReplaceDesign(r.Context(), &design); err != nil {
		s.fail(w, err)
		return
	}
	s.publish(&design)
	s.writeJSON(w, http.StatusOK, &design)
}

func (s *Server) deleteDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteDesign(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getLayers(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	design, err := s.svc.Design(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, layers.Outline(design, layers.Options{}))
}

func (s *Server) addShape(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type  domain.ShapeType `json:"type"`
		Props map[string]any   `json:"props"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	var shape domain.Shape
	s.edit(w, r, http.StatusCreated, func(ctx context.Context, ed *editor.Editor) (any, error) {
		var err error
		shape, err = ed.AddShape(ctx, body.Type, body.Props)
		return &shape, err
	})
}

func (s *Server) deleteShape(w http.ResponseWriter, r *http.Request) {
	s.editShape(w, r, (*editor.Editor).DeleteShape)
}

func (s *Server) moveForward(w http.ResponseWriter, r *http.Request) {
	s.editShape(w, r, (*editor.Editor).MoveForward)
}

func (s *Server) moveBackward(w http.ResponseWriter, r *http.Request) {
	s.editShape(w, r, (*editor.Editor).MoveBackward)
}

func (s *Server) editShape(w http.ResponseWriter, r *http.Request, op func(*editor.Editor, context.Context, string) bool) {
	shapeID, ok := s.pathParam(w, r, "shapeId")
	if !ok {
		return
	}
	s.edit(w, r, http.StatusOK, func(ctx context.Context, ed *editor.Editor) (any, error) {
		return changed{Changed: op(ed, ctx, shapeID)}, nil
	})
}

func (s *Server) selectShape(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	s.edit(w, r, http.StatusOK, func(ctx context.Context, ed *editor.Editor) (any, error) {
		return changed{Changed: ed.SelectShape(ctx, body.ID)}, nil
	})
}

func (s *Server) groupShapes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	s.edit(w, r, http.StatusCreated, func(ctx context.Context, ed *editor.Editor) (any, error) {
		group, err := ed.GroupShapes(ctx, body.IDs)
		return &group, err
	})
}

func (s *Server) ungroupShapes(w http.ResponseWriter, r *http.Request) {
	groupID, ok := s.pathParam(w, r, "shapeId")
	if !ok {
		return
	}
	s.edit(w, r, http.StatusOK, func(ctx context.Context, ed *editor.Editor) (any, error) {
		ok, err := ed.UngroupShapes(ctx, groupID)
		return changed{Changed: ok}, err
	})
}

func (s *Server) insertTemplate(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "name")
	if !ok {
		return
	}
	s.edit(w, r, http.StatusCreated, func(ctx context.Context, ed *editor.Editor) (any, error) {
		return ed.InsertTemplate(ctx, name)
	})
}

func (s *Server) addImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing image upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	s.edit(w, r, http.StatusCreated, func(ctx context.Context, ed *editor.Editor) (any, error) {
		shape, err := ed.AddImage(ctx, header.Filename, data)
		return &shape, err
	})
}

func (s *Server) exportDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	target, ok := s.pathParam(w, r, "target")
	if !ok {
		return
	}
	var project string
	if err := runtime.BindQueryParameter("form", true, false, "project", r.URL.Query(), &project); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	fs, err := s.svc.Export(r.Context(), id, target, project)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := archive.Build(&buf, fs); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": archive.FileName(fs.Project),
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("export download interrupted", "design_id", id, "err", err)
	}
}

// subscribe streams the design as JSON after every change (SSE).
func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ch, cancel := s.streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "design_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: design\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// edit runs op on the design under its lock and writes the op result.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, status int, op func(context.Context, *editor.Editor) (any, error)) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var result any
	design, err := s.svc.Edit(r.Context(), id, func(ed *editor.Editor) error {
		var err error
		result, err = op(r.Context(), ed)
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.publish(design)
	s.writeJSON(w, status, result)
}

func (s *Server) publish(design *domain.Design) {
	if s.streams.Subscribers(design.ID) == 0 {
		return
	}
	data, err := json.Marshal(design)
	if err != nil {
		s.logger.Error("failed to encode design update", "design_id", design.ID, "err", err)
		return
	}
	s.streams.Broadcast(design.ID, string(data))
}

func (s *Server) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return "", false
	}
	return v, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDesignNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrUnknownTarget):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDesignExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, export.ErrScaffold):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
