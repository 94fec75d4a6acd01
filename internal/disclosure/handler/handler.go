package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meridian/internal/disclosure/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/httputil"
	"meridian/pkg/requestcontext"
)

type Service interface {
	Upsert(ctx context.Context, dealID domain.DealID, req *models.UpsertDealRequest, actor string) (*models.DealProfile, error)
	Get(ctx context.Context, dealID domain.DealID) (*models.DealProfile, error)
	SetRegulatorApproval(ctx context.Context, dealID domain.DealID, approved bool, actor string) (*models.DealProfile, error)
}

// Handler serves deal disclosure endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// RegisterPublic mounts the read-only disclosure route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/deals/{id}/disclosure", h.handleDisclosure)
}

// RegisterAdmin mounts deal maintenance routes. Mount behind the admin
// token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/deals/{id}", h.handleGet)
	r.Put("/admin/deals/{id}", h.handleUpsert)
	r.Put("/admin/deals/{id}/regulator-approval", h.handleRegulatorApproval)
}

func (h *Handler) handleDisclosure(w http.ResponseWriter, r *http.Request) {
	dealID, ok := h.dealID(w, r)
	if !ok {
		return
	}
	deal, err := h.service.Get(r.Context(), dealID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToDisclosureResponse(deal))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	dealID, ok := h.dealID(w, r)
	if !ok {
		return
	}
	deal, err := h.service.Get(r.Context(), dealID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToDealResponse(deal))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	dealID, ok := h.dealID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.UpsertDealRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	deal, err := h.service.Upsert(ctx, dealID, req, requestcontext.ActorID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save deal profile",
			"request_id", requestID,
			"deal_id", dealID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToDealResponse(deal))
}

func (h *Handler) handleRegulatorApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	dealID, ok := h.dealID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.RegulatorApprovalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	deal, err := h.service.SetRegulatorApproval(ctx, dealID, *req.Approved, requestcontext.ActorID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to set regulator approval",
			"request_id", requestID,
			"deal_id", dealID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToDealResponse(deal))
}

func (h *Handler) dealID(w http.ResponseWriter, r *http.Request) (domain.DealID, bool) {
	dealID, err := domain.ParseDealID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.DealID{}, false
	}
	return dealID, true
}
