package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	service  *application.MigrationService
	dumpPath string
	logger   *zap.Logger
	validate *validator.Validate
}

// envelope is the body of every /migration response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type importRequest struct {
	Force bool `json:"force"`
}

type scopeRequest struct {
	Scope string `json:"scope" validate:"omitempty,oneof=core complete"`
}

type treePath struct {
	TreeID uint64 `validate:"required,gt=0"`
}

type dashboard struct {
	Status         application.MigrationStatus `json:"status"`
	AvailableTrees int                         `json:"available_trees"`
	DumpPath       string                      `json:"dump_path"`
}

func NewRouter(service *application.MigrationService, dumpPath string, logger *zap.Logger, gatherer prometheus.Gatherer) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := &Handler{
		service:  service,
		dumpPath: dumpPath,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/migration", func(m chi.Router) {
		m.Get("/", h.handleDashboard)
		m.Get("/status", h.handleStatus)
		m.Get("/available-trees", h.handleAvailableTrees)
		m.Post("/import-old-database", h.handleImport)
		m.Post("/migrate-core-data", h.handleRun)
		m.Post("/migrate-tree/{treeId}", h.handleMigrateTree)
		m.Post("/migrate-all-trees", h.handleMigrateAll)
	})

	return r
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := dashboard{Status: status, DumpPath: h.dumpPath}
	if status.OldDatabase.Imported {
		trees, err := h.service.AvailableTrees(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		out.AvailableTrees = len(trees)
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: out})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: status})
}

func (h *Handler) handleAvailableTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := h.service.AvailableTrees(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: trees})
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.Importer().Import(r.Context(), h.dumpPath, req.Force)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	msg := "Old database imported successfully"
	if result.Skipped {
		msg = "Old database already imported"
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg, Data: result})
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	report, err := h.service.Run(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Migration completed", Data: report})
}

func (h *Handler) handleMigrateTree(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "treeId"), 10, 64)
	if err != nil || h.validate.Struct(treePath{TreeID: id}) != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid tree id"})
		return
	}
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	migrated, err := h.service.MigrateTree(r.Context(), uint(id), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Tree migrated",
		Data: map[string]any{
			"result": migrated.Result(),
			"flow":   migrated.Flow,
		},
	})
}

func (h *Handler) handleMigrateAll(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	batch, err := h.service.MigrateAll(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "All trees processed", Data: batch})
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (application.Scope, bool) {
	var req scopeRequest
	if !h.decode(w, r, &req) {
		return "", false
	}
	scope, err := application.ParseScope(req.Scope)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: err.Error()})
		return "", false
	}
	return scope, true
}

// decode accepts an empty body as the zero request.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid payload"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, application.ErrTreeNotFound),
		errors.Is(err, application.ErrLegacyNotImported),
		errors.Is(err, application.ErrDumpNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, envelope{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
