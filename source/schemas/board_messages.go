package schemas

const (
	BOARD_MESSAGE_POINTER_DOWN = "pointer_down"
	BOARD_MESSAGE_POINTER_MOVE = "pointer_move"
	BOARD_MESSAGE_POINTER_UP   = "pointer_up"
	BOARD_MESSAGE_KEY_PICK_UP  = "key_pick_up"
	BOARD_MESSAGE_KEY_MOVE     = "key_move"
	BOARD_MESSAGE_KEY_DROP     = "key_drop"
	BOARD_MESSAGE_CANCEL       = "cancel"
	BOARD_MESSAGE_RELOAD       = "reload"

	BOARD_MESSAGE_BOARD    = "board"
	BOARD_MESSAGE_NOTICE   = "notice"
	BOARD_MESSAGE_NAVIGATE = "navigate"
	BOARD_MESSAGE_ERROR    = "error"

	DROP_TARGET_ITEM   = "item"
	DROP_TARGET_COLUMN = "column"

	NOTICE_SUCCESS = "success"
	NOTICE_ERROR   = "error"
)

// DropTarget is whatever sits under the pointer. An empty Kind means nothing
// recognizable.
type DropTarget struct {
	Kind   string `json:"kind,omitempty"`
	ItemID string `json:"item_id,omitempty"`
	Stage  Stage  `json:"stage,omitempty"`
}

type BoardClientMessage struct {
	Type   string     `json:"type"`
	ItemID string     `json:"item_id,omitempty"`
	X      float64    `json:"x,omitempty"`
	Y      float64    `json:"y,omitempty"`
	Target DropTarget `json:"target"`
}

type BoardServerMessage struct {
	Type    string           `json:"type"`
	Columns []PipelineColumn `json:"columns,omitempty"`
	Kind    string           `json:"kind,omitempty"`
	Message string           `json:"message,omitempty"`
	ItemID  string           `json:"item_id,omitempty"`
}
