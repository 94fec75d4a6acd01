package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meridian/internal/jurisdiction"
	"meridian/pkg/platform/httputil"
)

// Registry is the read side of the jurisdiction registry.
type Registry interface {
	Lookup(countryCode string) (jurisdiction.Rule, error)
	ListByRegion(region jurisdiction.Region) []jurisdiction.Rule
	All() []jurisdiction.Rule
}

type RuleResponse struct {
	CountryCode string                   `json:"country_code"`
	Name        string                   `json:"name"`
	Region      jurisdiction.Region      `json:"region"`
	Passporting bool                     `json:"passporting"`
	Permissions jurisdiction.Permissions `json:"permissions"`
}

type ListResponse struct {
	Success       bool           `json:"success"`
	Jurisdictions []RuleResponse `json:"jurisdictions"`
}

type GetResponse struct {
	Success bool `json:"success"`
	RuleResponse
}

func toRuleResponse(r jurisdiction.Rule) RuleResponse {
	return RuleResponse{
		CountryCode: r.CountryCode,
		Name:        r.Name,
		Region:      r.Region,
		Passporting: r.Passporting,
		Permissions: r.Permissions,
	}
}

// Handler serves read-only jurisdiction lookups.
type Handler struct {
	logger   *slog.Logger
	registry Registry
}

func New(registry Registry, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, registry: registry}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/jurisdictions", h.handleList)
	r.Get("/jurisdictions/{code}", h.handleGet)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rule, err := h.registry.Lookup(chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GetResponse{Success: true, RuleResponse: toRuleResponse(rule)})
}

// handleList returns every rule, or one region when ?region= is set.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	rules := h.registry.All()
	if raw := r.URL.Query().Get("region"); raw != "" {
		region, err := jurisdiction.ParseRegion(raw)
		if err != nil {
			h.logger.WarnContext(r.Context(), "invalid region filter", "region", raw)
			httputil.WriteError(w, err)
			return
		}
		rules = h.registry.ListByRegion(region)
	}

	out := make([]RuleResponse, len(rules))
	for i, rule := range rules {
		out[i] = toRuleResponse(rule)
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Jurisdictions: out})
}
