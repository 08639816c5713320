package utils

import "fmt"

const (
	_ = iota
	PIPELINE_INVALID_REQUEST_DATA
	INVALID_PIPELINE_ITEM_ID_FORMAT
	CANNOT_FIND_PIPELINE_ITEMS
	CANNOT_FIND_PIPELINE_ITEM_BY_ID
	CANNOT_UPDATE_PIPELINE_ITEM_STAGE
	CANNOT_REGISTER_IDEMPOTENCY_KEY
	REPORTS_INVALID_DATE_RANGE
	CANNOT_BUILD_PROFIT_AND_LOSS
	VENDORS_INVALID_REQUEST_DATA
	CANNOT_FIND_PIPELINE_STAGE_HISTORY
)

func SendInternalError(internalErrorCode int) string {
	return fmt.Sprintf("An internal server error occurred. Please try again later (Code: %d)", internalErrorCode)
}
