package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/internal/errmap"
	"github.com/aelexs/phonekit/internal/observability"
	"github.com/aelexs/phonekit/pkg/api"
)

// Handler serves Service over HTTP.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes registers the /v1 API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/numbers/parse", h.parse)
		r.Get("/numbers/format", h.format)
		r.Post("/numbers/find", h.find)
		r.Post("/numbers/as-you-type", h.asYouType)
		r.Get("/numbers/match", h.match)
		r.Get("/regions", h.regions)
		r.Get("/regions/{region}/example", h.example)
	})
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	info, err := h.svc.Parse(r.Context(), q.Get("number"), q.Get("region"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.svc.Format(r.Context(), q.Get("number"), q.Get("region"), q.Get("style"), q.Get("from"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	var req api.FindRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.svc.Find(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) asYouType(w http.ResponseWriter, r *http.Request) {
	var req api.AsYouTypeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.svc.AsYouType(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.svc.Match(r.Context(), q.Get("first"), q.Get("second"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) regions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Regions(r.Context()))
}

func (h *Handler) example(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Example(r.Context(), chi.URLParam(r, "region"), r.URL.Query().Get("type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeBody reads a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxRequestBodySize)
	if err := api.DecodeRequest(r.Body, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", domain.ErrTextTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := errmap.ToHTTPError(err)
	logger := observability.WithTraceID(r.Context(), h.logger)
	if !domain.IsClientError(err) {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	} else {
		logger.DebugContext(r.Context(), "request rejected",
			slog.String("path", r.URL.Path), slog.String("code", httpErr.Code))
	}
	writeJSON(w, httpErr.StatusCode, api.ErrorResponse{Code: httpErr.Code, Message: httpErr.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
