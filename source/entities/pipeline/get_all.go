package pipeline

import (
	"commandcenter/source/board"
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	var onlyStage schemas.Stage
	if stageParam := r.URL.Query().Get("stage"); stageParam != "" {
		stage, err := schemas.ParseStage(stageParam)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, err.Error(), nil, 0)
			return
		}
		onlyStage = stage
	}

	state := board.NewState(h.store, nil)
	if err := state.Load(r.Context()); err != nil {
		log.WithError(err).Error("GET /v1/pipeline")
		utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_FIND_PIPELINE_ITEMS)
		return
	}

	columns := state.Snapshot()
	if onlyStage != "" {
		for _, column := range columns {
			if column.Stage == onlyStage {
				columns = []schemas.PipelineColumn{column}
				break
			}
		}
	}

	utils.SendResponse(w, http.StatusOK, "", columns, 0)
}
