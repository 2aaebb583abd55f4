package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/approval"
	"github.com/viant/reviewflow/service/bulk"
	"github.com/viant/reviewflow/service/queue"
	"github.com/viant/reviewflow/tracing"
)

// AdminHeader carries the acting administrator.
const AdminHeader = "X-Admin-ID"

// DefaultMaxBulkSize caps bulk requests unless WithMaxBulkSize is used.
const DefaultMaxBulkSize = 50

// Engine is the review surface served over HTTP.
type Engine interface {
	Enqueue(ctx context.Context, candidate *model.Candidate, options ...queue.EnqueueOption) (*model.ReviewItem, error)
	List(ctx context.Context, filter model.Filter) (*model.ListResult, error)
	Get(ctx context.Context, id string) (*model.ReviewItem, error)
	Approve(ctx context.Context, contentID, adminID string, options approval.ApproveOptions) (*model.ApprovalResult, error)
	Reject(ctx context.Context, contentID, adminID, reason string, options approval.RejectOptions) (*model.ApprovalResult, error)
	Edit(ctx context.Context, contentID, adminID string, edits *approval.Edits) (*model.EditResult, error)
	BulkApprove(ctx context.Context, contentIDs []string, adminID string, options bulk.Options) (*model.BulkResult, error)
	BulkReject(ctx context.Context, contentIDs []string, adminID, reason string) (*model.BulkResult, error)
	Statistics(ctx context.Context) (model.ReviewMetrics, error)
}

// Handler serves the review API.
type Handler struct {
	engine         Engine
	maxBulkSize    int
	allowedOrigins []string
	logger         *slog.Logger
	router         *mux.Router
	handler        http.Handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// Router returns the route table without CORS and recovery.
func (h *Handler) Router() *mux.Router {
	return h.router
}

func (h *Handler) routes() {
	r := mux.NewRouter()
	r.Use(h.trace)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1/reviews").Subrouter()
	api.HandleFunc("", h.list).Methods(http.MethodGet)
	api.HandleFunc("", h.enqueue).Methods(http.MethodPost)
	api.HandleFunc("/statistics", h.statistics).Methods(http.MethodGet)
	api.HandleFunc("/bulk/approve", h.bulkApprove).Methods(http.MethodPost)
	api.HandleFunc("/bulk/reject", h.bulkReject).Methods(http.MethodPost)
	api.HandleFunc("/{contentId}", h.get).Methods(http.MethodGet)
	api.HandleFunc("/{contentId}", h.edit).Methods(http.MethodPatch)
	api.HandleFunc("/{contentId}/approve", h.approve).Methods(http.MethodPost)
	api.HandleFunc("/{contentId}/reject", h.reject).Methods(http.MethodPost)
	h.router = r

	origins := h.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", AdminHeader, "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(h.logger.Handler(), slog.LevelError)),
	)
	h.handler = cors(recovery(r))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.engine.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Statistics(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.engine.Get(r.Context(), mux.Vars(r)["contentId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	req := &enqueueRequest{}
	if err := decode(r, "enqueue", req); err != nil {
		h.writeError(w, r, err)
		return
	}
	var options []queue.EnqueueOption
	if req.BatchJobID != "" {
		options = append(options, queue.WithBatchJobID(req.BatchJobID))
	}
	if req.Priority != nil {
		options = append(options, queue.WithPriority(*req.Priority))
	}
	item, err := h.engine.Enqueue(r.Context(), &req.Candidate, options...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	const op = "approve"
	adminID, err := adminFrom(r, op)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req := &approveRequest{}
	if r.ContentLength != 0 {
		if err = decode(r, op, req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	options, err := req.options()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.engine.Approve(r.Context(), mux.Vars(r)["contentId"], adminID, options)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	const op = "reject"
	adminID, err := adminFrom(r, op)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req := &rejectRequest{}
	if err = decode(r, op, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.engine.Reject(r.Context(), mux.Vars(r)["contentId"], adminID, req.Reason, approval.RejectOptions{Regenerate: req.Regenerate})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	const op = "edit"
	adminID, err := adminFrom(r, op)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	values := map[string]any{}
	if err = decode(r, op, &values); err != nil {
		h.writeError(w, r, err)
		return
	}
	edits, err := approval.ParseEdits(values)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.engine.Edit(r.Context(), mux.Vars(r)["contentId"], adminID, edits)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) bulkApprove(w http.ResponseWriter, r *http.Request) {
	const op = "bulkApprove"
	adminID, err := adminFrom(r, op)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req := &bulkApproveRequest{}
	if err = decode(r, op, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.checkBulkSize(op, len(req.ContentIDs)); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.engine.BulkApprove(r.Context(), req.ContentIDs, adminID, req.options())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) bulkReject(w http.ResponseWriter, r *http.Request) {
	const op = "bulkReject"
	adminID, err := adminFrom(r, op)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req := &bulkRejectRequest{}
	if err = decode(r, op, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.checkBulkSize(op, len(req.ContentIDs)); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.engine.BulkReject(r.Context(), req.ContentIDs, adminID, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) checkBulkSize(op string, n int) error {
	if n > h.maxBulkSize {
		return errs.Validation(op, "at most %d content ids are allowed, got %d", h.maxBulkSize, n)
	}
	return nil
}

func adminFrom(r *http.Request, op string) (string, error) {
	adminID := strings.TrimSpace(r.Header.Get(AdminHeader))
	if adminID == "" {
		return "", errs.Validation(op, "%s header is required", AdminHeader)
	}
	return adminID, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// trace wraps every routed request in a server span.
func (h *Handler) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				name = template
			}
		}
		ctx, span := tracing.StartSpan(r.Context(), fmt.Sprintf("%s %s", r.Method, name), tracing.KindServer)
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(ctx))
		span.SetStatusFromHTTPCode(recorder.status)
		var err error
		if recorder.status >= http.StatusBadRequest {
			err = fmt.Errorf("status %d", recorder.status)
		}
		tracing.EndSpan(span, err)
	})
}

// New creates a Handler serving engine.
func New(engine Engine, options ...Option) *Handler {
	ret := &Handler{
		engine:      engine,
		maxBulkSize: DefaultMaxBulkSize,
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With("component", "http")
	ret.routes()
	return ret
}
