package rest

import (
	"log/slog"
	"net/http"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/application/usecase"
	"github.com/tandaclub/tanda/pkg/auth"
)

// ContributionHandler exposes the weekly-payment operations over REST.
type ContributionHandler struct {
	recordContribution *usecase.RecordContributionUseCase
	deleteContribution *usecase.DeleteContributionUseCase
	getContribution    *usecase.GetContributionUseCase
	listContributions  *usecase.ListContributionsUseCase
	contributionStats  *usecase.ContributionStatsUseCase
	logger             *slog.Logger
}

// NewContributionHandler wires the contribution usecases into an HTTP handler.
func NewContributionHandler(
	recordContribution *usecase.RecordContributionUseCase,
	deleteContribution *usecase.DeleteContributionUseCase,
	getContribution *usecase.GetContributionUseCase,
	listContributions *usecase.ListContributionsUseCase,
	contributionStats *usecase.ContributionStatsUseCase,
	logger *slog.Logger,
) *ContributionHandler {
	return &ContributionHandler{
		recordContribution: recordContribution,
		deleteContribution: deleteContribution,
		getContribution:    getContribution,
		listContributions:  listContributions,
		contributionStats:  contributionStats,
		logger:             logger,
	}
}

// RegisterRoutes attaches the contribution routes to the given mux.
func (h *ContributionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/contributions", h.record)
	mux.HandleFunc("GET /api/v1/contributions", h.list)
	mux.HandleFunc("GET /api/v1/contributions/{id}", h.get)
	mux.HandleFunc("DELETE /api/v1/contributions/{id}", h.delete)
	mux.HandleFunc("GET /api/v1/members/{member_id}/contributions", h.listByMember)
	mux.HandleFunc("GET /api/v1/groups/{id}/contributions", h.listByGroup)
	mux.HandleFunc("GET /api/v1/groups/{id}/members/{member_id}/stats", h.stats)
}

func (h *ContributionHandler) record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	// Contributions are recorded on behalf of the authenticated member.
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		req.MemberID = claims.UserID.String()
	}

	resp, err := h.recordContribution.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *ContributionHandler) list(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listContributions.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ContributionHandler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getContribution.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ContributionHandler) delete(w http.ResponseWriter, r *http.Request) {
	req := dto.DeleteContributionRequest{
		ContributionID: r.PathValue("id"),
		RequesterRole:  requesterRole(r),
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		req.RequesterID = claims.UserID.String()
	}

	if err := h.deleteContribution.Execute(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContributionHandler) listByMember(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listContributions.ByMember(r.Context(), r.PathValue("member_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ContributionHandler) listByGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listContributions.ByGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ContributionHandler) stats(w http.ResponseWriter, r *http.Request) {
	req := dto.ContributionStatsRequest{
		GroupID:  r.PathValue("id"),
		MemberID: r.PathValue("member_id"),
	}

	resp, err := h.contributionStats.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
