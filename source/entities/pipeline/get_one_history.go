package pipeline

import (
	"commandcenter/source/board"
	"commandcenter/source/utils"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetOneHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_PIPELINE_ITEM_ID_FORMAT)
		return
	}

	ctx := r.Context()
	if _, err := h.store.FetchOne(ctx, id); err != nil {
		if errors.Is(err, board.ErrItemNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Pipeline item not found", nil, 0)
			return
		}
		log.WithError(err).WithField("item_id", id).Error("GET /v1/pipeline/{id}/history")
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_PIPELINE_ITEM_BY_ID)
		return
	}

	history, err := h.store.FetchHistory(ctx, id)
	if err != nil {
		log.WithError(err).WithField("item_id", id).Error("GET /v1/pipeline/{id}/history")
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_PIPELINE_STAGE_HISTORY)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", history, 0)
}
