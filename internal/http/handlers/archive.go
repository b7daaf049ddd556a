package handlers

import (
	"net/http"

	"projmatch/internal/app"
	"projmatch/internal/http/response"
)

type ArchiveHandler struct {
	archive *app.ArchiveService
}

func NewArchiveHandler(archive *app.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

func (h *ArchiveHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.archive.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
