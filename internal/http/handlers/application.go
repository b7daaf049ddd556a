package handlers

import (
	"net/http"
	"strings"
	"time"

	"projmatch/internal/app"
	"projmatch/internal/common"
	"projmatch/internal/domain/application"
	"projmatch/internal/domain/user"
	"projmatch/internal/http/middleware"
	"projmatch/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	identity     *app.IdentityService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, identity *app.IdentityService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, identity: identity, limiter: limiter}
}

func (h *ApplicationHandler) resolveActor(r *http.Request, assertedUID string) (*user.User, error) {
	subjectUID, ok := middleware.SubjectUIDFromContext(r.Context())
	if !ok {
		return nil, errUnauthorized()
	}
	if asserted := strings.TrimSpace(assertedUID); asserted != "" && asserted != subjectUID {
		return nil, common.NewError(common.CodeForbidden, "asserted uid does not match token", nil)
	}
	return h.identity.Resolve(r.Context(), subjectUID)
}

type applyRequest struct {
	StudentUID string `json:"studentUid"`
	ProjectID  string `json:"projectId"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	actor, err := h.resolveActor(r, req.StudentUID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"projectId": "projectId is required"}))
		return
	}
	projectID, err := common.ParseUUID(req.ProjectID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"projectId": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + projectID.String() + ":" + actor.ID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.SubmitDirect(r.Context(), actor.ID, projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type proposalRequest struct {
	StudentUID    string                       `json:"studentUid"`
	SupervisorUID string                       `json:"supervisorUid"`
	ProjectTitle  string                       `json:"projectTitle"`
	Details       *application.ProposalDetails `json:"details"`
}

func (h *ApplicationHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	actor, err := h.resolveActor(r, req.StudentUID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.SupervisorUID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"supervisorUid": "supervisorUid is required"}))
		return
	}
	supervisor, err := h.identity.Resolve(r.Context(), req.SupervisorUID)
	if err != nil {
		if isNotFound(err) {
			response.Error(w, common.NewError(common.CodeNotFound, "supervisor not found", nil))
			return
		}
		response.Error(w, err)
		return
	}
	details := application.ProposalDetails{}
	if req.Details != nil {
		details = *req.Details
	}
	if h.limiter != nil {
		key := "propose:" + actor.ID.String()
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "proposal rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.SubmitProposal(r.Context(), actor.ID, supervisor.ID, req.ProjectTitle, details)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	studentUID := strings.TrimSpace(r.URL.Query().Get("studentUid"))
	supervisorUID := strings.TrimSpace(r.URL.Query().Get("supervisorUid"))
	switch {
	case studentUID != "":
		actor, err := h.resolveActor(r, studentUID)
		if err != nil {
			response.Error(w, err)
			return
		}
		h.writeList(w, r, func() ([]application.Application, error) {
			return h.applications.ListByStudent(r.Context(), actor.ID)
		})
	case supervisorUID != "":
		actor, err := h.resolveActor(r, supervisorUID)
		if err != nil {
			response.Error(w, err)
			return
		}
		h.writeList(w, r, func() ([]application.Application, error) {
			return h.applications.ListBySupervisor(r.Context(), actor.ID)
		})
	default:
		actor, err := h.resolveActor(r, "")
		if err != nil {
			response.Error(w, err)
			return
		}
		if actor.Role == user.RoleSupervisor {
			h.writeList(w, r, func() ([]application.Application, error) {
				return h.applications.ListBySupervisor(r.Context(), actor.ID)
			})
			return
		}
		h.writeList(w, r, func() ([]application.Application, error) {
			return h.applications.ListByStudent(r.Context(), actor.ID)
		})
	}
}

func (h *ApplicationHandler) writeList(w http.ResponseWriter, _ *http.Request, load func() ([]application.Application, error)) {
	items, err := load()
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []application.Application{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	actor, err := h.resolveActor(r, "")
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if item.StudentID != actor.ID && item.SupervisorID != actor.ID {
		response.Error(w, common.NewError(common.CodeForbidden, "application belongs to another user", nil))
		return
	}
	response.JSON(w, http.StatusOK, item)
}

type applicationPatchRequest struct {
	Status       string                       `json:"status"`
	Reason       string                       `json:"reason"`
	ProjectTitle string                       `json:"projectTitle"`
	Details      *application.ProposalDetails `json:"details"`
}

// Patch serves the original frontend's single PATCH endpoint: a payload with
// a status is a supervisor decision, anything else is a student proposal
// edit.
func (h *ApplicationHandler) Patch(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applicationPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	actor, err := h.resolveActor(r, "")
	if err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) != "" {
		h.updateStatus(w, r, applicationID, actor, req)
		return
	}
	details := application.ProposalDetails{}
	if req.Details != nil {
		details = *req.Details
	}
	updated, err := h.applications.EditProposal(r.Context(), applicationID, actor.ID, req.ProjectTitle, details)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// UpdateStatus serves the explicit /applications/{id}/status route.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applicationPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "status is required"}))
		return
	}
	actor, err := h.resolveActor(r, "")
	if err != nil {
		response.Error(w, err)
		return
	}
	h.updateStatus(w, r, applicationID, actor, req)
}

func (h *ApplicationHandler) updateStatus(w http.ResponseWriter, r *http.Request, applicationID common.UUID, actor *user.User, req applicationPatchRequest) {
	updated, err := h.applications.UpdateStatus(r.Context(), applicationID, actor.ID, application.Status(req.Status), req.Reason)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
