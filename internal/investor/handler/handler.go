package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meridian/internal/investor/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/httputil"
	"meridian/pkg/requestcontext"
)

// Service defines the investor operations exposed to reviewers.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest, registeredBy string) (*models.Profile, error)
	Get(ctx context.Context, investorID domain.InvestorID) (*models.Profile, error)
	History(ctx context.Context, investorID domain.InvestorID) ([]models.HistoryEntry, error)
	Reclassify(ctx context.Context, investorID domain.InvestorID, investorType, reviewedBy, notes string) (*models.Profile, error)
	UpdateScreening(ctx context.Context, investorID domain.InvestorID, isPEP, isSanctioned bool, actor string) (*models.Profile, error)
	LinkApplicant(ctx context.Context, investorID domain.InvestorID, applicantID, actor string) (*models.Profile, error)
	Delete(ctx context.Context, investorID domain.InvestorID, actor string) error
}

// Handler serves the admin investor endpoints. Routes must be mounted behind
// the admin token middleware, which also sets the reviewer identity.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new investor Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the investor routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/investors", h.handleRegister)
	r.Get("/admin/investors/{id}", h.handleGet)
	r.Delete("/admin/investors/{id}", h.handleDelete)
	r.Get("/admin/investors/{id}/history", h.handleHistory)
	r.Put("/admin/investors/{id}/classification", h.handleReclassify)
	r.Put("/admin/investors/{id}/screening", h.handleScreening)
	r.Put("/admin/investors/{id}/applicant", h.handleLinkApplicant)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.Register(ctx, req, requestcontext.ActorID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to register investor",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ToProfileResponse(profile))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.Get(ctx, investorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToProfileResponse(profile))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, investorID, requestcontext.ActorID(ctx)); err != nil {
		h.logger.WarnContext(ctx, "failed to delete investor",
			"request_id", requestID,
			"investor_id", investorID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"investor_id": investorID.String(),
		"deleted":     true,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.History(ctx, investorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToHistoryResponse(investorID.String(), entries))
}

func (h *Handler) handleReclassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ReclassifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.Reclassify(ctx, investorID, req.InvestorType, requestcontext.ActorID(ctx), req.Notes)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to reclassify investor",
			"request_id", requestID,
			"investor_id", investorID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToProfileResponse(profile))
}

func (h *Handler) handleScreening(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ScreeningRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.UpdateScreening(ctx, investorID, *req.IsPEP, *req.IsSanctioned, requestcontext.ActorID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToProfileResponse(profile))
}

func (h *Handler) handleLinkApplicant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.LinkApplicantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.LinkApplicant(ctx, investorID, req.ApplicantID, requestcontext.ActorID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToProfileResponse(profile))
}

func (h *Handler) investorID(w http.ResponseWriter, r *http.Request) (domain.InvestorID, bool) {
	investorID, err := domain.ParseInvestorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.InvestorID{}, false
	}
	return investorID, true
}
