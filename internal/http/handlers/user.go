package handlers

import (
	"net/http"

	"projmatch/internal/app"
	"projmatch/internal/common"
	"projmatch/internal/domain/user"
	"projmatch/internal/http/middleware"
	"projmatch/internal/http/response"
)

type UserHandler struct {
	identity *app.IdentityService
}

func NewUserHandler(identity *app.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

type registerRequest struct {
	SubjectUID      string `json:"subjectUid"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Faculty         string `json:"faculty"`
	Image           string `json:"image"`
	ICPassport      string `json:"icPassport"`
	AcademicYear    string `json:"academicYear"`
	CurrentSemester string `json:"currentSemester"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.identity.Register(r.Context(), user.User{
		SubjectUID:      req.SubjectUID,
		Name:            req.Name,
		Email:           req.Email,
		Role:            user.Role(req.Role),
		Faculty:         req.Faculty,
		Image:           req.Image,
		ICPassport:      req.ICPassport,
		AcademicYear:    req.AcademicYear,
		CurrentSemester: req.CurrentSemester,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	subjectUID, ok := middleware.SubjectUIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	targetUID := pathSegment(r, 1)
	if targetUID != subjectUID {
		response.Error(w, common.NewError(common.CodeForbidden, "profile belongs to another user", nil))
		return
	}
	resolved, err := h.identity.Resolve(r.Context(), targetUID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resolved)
}

type profileUpdateRequest struct {
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Role              string                  `json:"role"`
	Faculty           string                  `json:"faculty"`
	Image             string                  `json:"image"`
	ICPassport        string                  `json:"icPassport"`
	AcademicYear      string                  `json:"academicYear"`
	CurrentSemester   string                  `json:"currentSemester"`
	StudentProfile    *user.StudentProfile    `json:"studentProfile"`
	SupervisorProfile *user.SupervisorProfile `json:"supervisorProfile"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	subjectUID, ok := middleware.SubjectUIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	targetUID := pathSegment(r, 1)
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	// Role in the payload is ignored by the service: immutable after
	// registration.
	updated, err := h.identity.UpdateProfile(r.Context(), subjectUID, targetUID, user.User{
		Name:              req.Name,
		Email:             req.Email,
		Faculty:           req.Faculty,
		Image:             req.Image,
		ICPassport:        req.ICPassport,
		AcademicYear:      req.AcademicYear,
		CurrentSemester:   req.CurrentSemester,
		StudentProfile:    req.StudentProfile,
		SupervisorProfile: req.SupervisorProfile,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *UserHandler) ListSupervisors(w http.ResponseWriter, r *http.Request) {
	items, err := h.identity.ListSupervisors(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []user.User{}
	}
	response.JSON(w, http.StatusOK, items)
}
