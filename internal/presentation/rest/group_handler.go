package rest

import (
	"log/slog"
	"net/http"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/application/usecase"
	"github.com/tandaclub/tanda/pkg/auth"
)

// GroupHandler exposes the savings-group operations over REST.
type GroupHandler struct {
	createGroup *usecase.CreateGroupUseCase
	updateGroup *usecase.UpdateGroupUseCase
	deleteGroup *usecase.DeleteGroupUseCase
	joinGroup   *usecase.JoinGroupUseCase
	leaveGroup  *usecase.LeaveGroupUseCase
	getGroup    *usecase.GetGroupUseCase
	listGroups  *usecase.ListGroupsUseCase
	logger      *slog.Logger
}

// NewGroupHandler wires the group usecases into an HTTP handler.
func NewGroupHandler(
	createGroup *usecase.CreateGroupUseCase,
	updateGroup *usecase.UpdateGroupUseCase,
	deleteGroup *usecase.DeleteGroupUseCase,
	joinGroup *usecase.JoinGroupUseCase,
	leaveGroup *usecase.LeaveGroupUseCase,
	getGroup *usecase.GetGroupUseCase,
	listGroups *usecase.ListGroupsUseCase,
	logger *slog.Logger,
) *GroupHandler {
	return &GroupHandler{
		createGroup: createGroup,
		updateGroup: updateGroup,
		deleteGroup: deleteGroup,
		joinGroup:   joinGroup,
		leaveGroup:  leaveGroup,
		getGroup:    getGroup,
		listGroups:  listGroups,
		logger:      logger,
	}
}

// RegisterRoutes attaches the group routes to the given mux.
func (h *GroupHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/groups", h.create)
	mux.HandleFunc("GET /api/v1/groups", h.list)
	mux.HandleFunc("GET /api/v1/groups/{id}", h.get)
	mux.HandleFunc("PUT /api/v1/groups/{id}", h.update)
	mux.HandleFunc("DELETE /api/v1/groups/{id}", h.delete)
	mux.HandleFunc("GET /api/v1/groups/{id}/members", h.members)
	mux.HandleFunc("POST /api/v1/groups/{id}/members", h.join)
	mux.HandleFunc("DELETE /api/v1/groups/{id}/members/{member_id}", h.leave)
	mux.HandleFunc("GET /api/v1/members/{member_id}/groups", h.listByMember)
}

func (h *GroupHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		req.CreatorID = claims.UserID.String()
	}

	resp, err := h.createGroup.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *GroupHandler) list(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listGroups.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) listByMember(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listGroups.ByMember(r.Context(), r.PathValue("member_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getGroup.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) members(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getGroup.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.GroupMembersResponse{
		GroupID:   resp.ID,
		MemberIDs: resp.MemberIDs,
	})
}

func (h *GroupHandler) update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.GroupID = r.PathValue("id")

	resp, err := h.updateGroup.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deleteGroup.Execute(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) join(w http.ResponseWriter, r *http.Request) {
	var req dto.JoinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.GroupID = r.PathValue("id")
	// Members join themselves unless an explicit member_id is given.
	if req.MemberID == "" {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			req.MemberID = claims.UserID.String()
		}
	}

	resp, err := h.joinGroup.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) leave(w http.ResponseWriter, r *http.Request) {
	req := dto.LeaveGroupRequest{
		GroupID:  r.PathValue("id"),
		MemberID: r.PathValue("member_id"),
	}

	resp, err := h.leaveGroup.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
