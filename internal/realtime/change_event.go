package realtime

import "time"

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ChangeEvent describes one row change. Filters carries the column values a
// subscriber may match on, e.g. {"post_id": "12"}.
type ChangeEvent struct {
	Table      string            `json:"table"`
	Action     Action            `json:"action"`
	RowID      string            `json:"row_id"`
	Filters    map[string]string `json:"filters,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Filter selects change events by table and, optionally, one column value.
type Filter struct {
	Table  string `form:"table" json:"table"`
	Column string `form:"column" json:"column"`
	Value  string `form:"value" json:"value"`
}

func (f Filter) Matches(ev ChangeEvent) bool {
	if f.Table != "" && f.Table != ev.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	v, ok := ev.Filters[f.Column]
	return ok && v == f.Value
}
