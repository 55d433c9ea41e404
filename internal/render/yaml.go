package render

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tempo/internal/model"
	"tempo/internal/session"
)

type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *YAMLRenderer) Tasks(tasks []*model.Task) (string, error) {
	return marshalYAML(tasks)
}

func (r *YAMLRenderer) Habits(habits []*model.Habit, _ time.Time) (string, error) {
	return marshalYAML(habits)
}

func (r *YAMLRenderer) Routines(routines []*model.Routine) (string, error) {
	return marshalYAML(routines)
}

func (r *YAMLRenderer) Records(records []model.FocusSessionRecord) (string, error) {
	return marshalYAML(records)
}

func (r *YAMLRenderer) Snapshots(snapshots []model.SessionSnapshot) (string, error) {
	return marshalYAML(snapshots)
}

func (r *YAMLRenderer) Status(st session.Status) (string, error) {
	return marshalYAML(newStatusView(st))
}
