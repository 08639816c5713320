package vendors

import (
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func GetCriteria(w http.ResponseWriter, r *http.Request) {
	utils.SendResponse(w, http.StatusOK, "", Criteria, 0)
}

func Score(w http.ResponseWriter, r *http.Request) {
	application := schemas.VendorApplication{}
	if err := json.NewDecoder(r.Body).Decode(&application); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.VENDORS_INVALID_REQUEST_DATA)
		return
	}

	if err := utils.ValidateStruct(application); err != nil {
		log.WithError(err).Debug("POST /v1/vendors/score")
		utils.SendResponse(w, http.StatusBadRequest, err.Error(), nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", ScoreApplication(application), 0)
}
