package pipeline

import (
	"commandcenter/source/board"
	"commandcenter/source/metrics"
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const IDEMPOTENCY_HEADER = "Idempotency-Key"

func (h *Handler) UpdateOneStage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_PIPELINE_ITEM_ID_FORMAT)
		return
	}

	input := schemas.PipelineStageUpdate{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.PIPELINE_INVALID_REQUEST_DATA)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, err.Error(), nil, 0)
		return
	}
	stage := schemas.Stage(input.Stage)

	ctx := r.Context()
	entry := log.WithFields(log.Fields{"item_id": id, "stage": stage})

	idempotencyKey := r.Header.Get(IDEMPOTENCY_HEADER)
	recorded := false
	if idempotencyKey != "" && h.deduper != nil {
		added, err := h.deduper.Add(ctx, IDEMPOTENCY_SCOPE, idempotencyKey)
		if err != nil {
			entry.WithError(err).Error("could not record idempotency key")
			utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_REGISTER_IDEMPOTENCY_KEY)
			return
		}
		if !added {
			utils.SendResponse(w, http.StatusConflict, "Request already processed", nil, 0)
			return
		}
		recorded = true
	}

	forget := func() {
		if recorded {
			if err := h.deduper.Remove(ctx, IDEMPOTENCY_SCOPE, idempotencyKey); err != nil {
				entry.WithError(err).Warn("could not release idempotency key")
			}
		}
	}

	item, err := h.store.FetchOne(ctx, id)
	if err != nil {
		forget()
		if errors.Is(err, board.ErrItemNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Pipeline item not found", nil, 0)
			return
		}
		entry.WithError(err).Error("could not read pipeline item")
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_PIPELINE_ITEM_BY_ID)
		return
	}

	if item.Stage == stage {
		metrics.StageCommits.WithLabelValues(metrics.OUTCOME_NOOP).Inc()
		utils.SendResponse(w, http.StatusOK, "", item, 0)
		return
	}

	if err := h.store.UpdateStage(ctx, id, stage); err != nil {
		forget()
		metrics.StageCommits.WithLabelValues(metrics.OUTCOME_FAILURE).Inc()
		if errors.Is(err, board.ErrItemNotFound) {
			utils.SendResponse(w, http.StatusNotFound, "Pipeline item not found", nil, 0)
			return
		}
		entry.WithError(err).Error("could not update pipeline stage")
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_UPDATE_PIPELINE_ITEM_STAGE)
		return
	}

	metrics.StageCommits.WithLabelValues(metrics.OUTCOME_SUCCESS).Inc()
	entry.Info("stage updated")

	item.Stage = stage
	utils.SendResponse(w, http.StatusOK, "", item, 0)
}
