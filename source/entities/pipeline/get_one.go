package pipeline

import (
	"commandcenter/source/board"
	"commandcenter/source/utils"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_PIPELINE_ITEM_ID_FORMAT)
		return
	}

	item, err := h.store.FetchOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, board.ErrItemNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Pipeline item not found", nil, 0)
			return
		}
		log.WithError(err).WithField("item_id", id).Error("GET /v1/pipeline/{id}")
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_PIPELINE_ITEM_BY_ID)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", item, 0)
}
