package pipeline

import (
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"net/http"
)

func (h *Handler) GetAllStages(w http.ResponseWriter, r *http.Request) {
	utils.SendResponse(w, http.StatusOK, "", schemas.Stages, 0)
}
