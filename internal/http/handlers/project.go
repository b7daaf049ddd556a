package handlers

import (
	"net/http"
	"strings"

	"projmatch/internal/app"
	"projmatch/internal/common"
	"projmatch/internal/domain/project"
	"projmatch/internal/http/middleware"
	"projmatch/internal/http/response"
)

type ProjectHandler struct {
	projects *app.ProjectService
	identity *app.IdentityService
}

func NewProjectHandler(projects *app.ProjectService, identity *app.IdentityService) *ProjectHandler {
	return &ProjectHandler{projects: projects, identity: identity}
}

type projectRequest struct {
	SupervisorUID    string   `json:"supervisorUid"`
	SupervisorName   string   `json:"supervisorName"`
	SupervisorEmail  string   `json:"supervisorEmail"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Status           string   `json:"status"`
	Technologies     []string `json:"technologies"`
	Duration         string   `json:"duration"`
}

// actor resolves the authenticated subject to a stored user, optionally
// checking a caller-asserted uid against the verified one.
func (h *ProjectHandler) actor(r *http.Request, assertedUID string) (common.UUID, error) {
	subjectUID, ok := middleware.SubjectUIDFromContext(r.Context())
	if !ok {
		return "", errUnauthorized()
	}
	if asserted := strings.TrimSpace(assertedUID); asserted != "" && asserted != subjectUID {
		return "", common.NewError(common.CodeForbidden, "supervisorUid does not match token", nil)
	}
	resolved, err := h.identity.Resolve(r.Context(), subjectUID)
	if err != nil {
		return "", err
	}
	return resolved.ID, nil
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	actorID, err := h.actor(r, req.SupervisorUID)
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.projects.Create(r.Context(), actorID, project.Project{
		SupervisorName:   req.SupervisorName,
		SupervisorEmail:  req.SupervisorEmail,
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Status:           project.Status(req.Status),
		Technologies:     req.Technologies,
		Duration:         req.Duration,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.projects.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []project.Project{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ProjectHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actorID, err := h.actor(r, r.URL.Query().Get("supervisorUid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.projects.ListBySupervisor(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []project.Project{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	actorID, err := h.actor(r, req.SupervisorUID)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.projects.Update(r.Context(), actorID, project.Project{
		ID:               projectID,
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Status:           project.Status(req.Status),
		Technologies:     req.Technologies,
		Duration:         req.Duration,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	actorID, err := h.actor(r, r.URL.Query().Get("supervisorUid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.projects.SoftDelete(r.Context(), actorID, projectID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
