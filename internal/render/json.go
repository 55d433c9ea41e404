package render

import (
	"encoding/json"
	"time"

	"tempo/internal/model"
	"tempo/internal/session"
)

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *JSONRenderer) Tasks(tasks []*model.Task) (string, error) {
	return marshalJSON(tasks)
}

func (r *JSONRenderer) Habits(habits []*model.Habit, _ time.Time) (string, error) {
	return marshalJSON(habits)
}

func (r *JSONRenderer) Routines(routines []*model.Routine) (string, error) {
	return marshalJSON(routines)
}

func (r *JSONRenderer) Records(records []model.FocusSessionRecord) (string, error) {
	return marshalJSON(records)
}

func (r *JSONRenderer) Snapshots(snapshots []model.SessionSnapshot) (string, error) {
	return marshalJSON(snapshots)
}

func (r *JSONRenderer) Status(st session.Status) (string, error) {
	return marshalJSON(newStatusView(st))
}
