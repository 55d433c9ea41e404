package render

import (
	"fmt"
	"strings"
	"time"

	"tempo/internal/model"
	"tempo/internal/session"
)

type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// Renderer turns domain values into printable output.
type Renderer interface {
	Tasks([]*model.Task) (string, error)
	Habits([]*model.Habit, time.Time) (string, error)
	Routines([]*model.Routine) (string, error)
	Records([]model.FocusSessionRecord) (string, error)
	Snapshots([]model.SessionSnapshot) (string, error)
	Status(session.Status) (string, error)
}

func New(format OutputFormat) (Renderer, error) {
	switch format {
	case OutputFormatTable:
		return NewTableRenderer(), nil
	case OutputFormatJSON:
		return NewJSONRenderer(), nil
	case OutputFormatYAML:
		return NewYAMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	switch format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (supported: table, json, yaml)", s)
	}
}

// statusView is the serializable shape of a session status for the JSON and
// YAML renderers. Phase is rendered as its name, not its ordinal.
type statusView struct {
	Phase          string                 `json:"phase" yaml:"phase"`
	Routine        model.RoutineRef       `json:"routine" yaml:"routine"`
	Steps          []model.StepDefinition `json:"steps" yaml:"steps"`
	CurrentStep    int                    `json:"current_step" yaml:"current_step"`
	ElapsedSeconds int                    `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	CompletedSteps int                    `json:"completed_steps" yaml:"completed_steps"`
}

func newStatusView(st session.Status) statusView {
	return statusView{
		Phase:          st.Phase.String(),
		Routine:        st.Routine,
		Steps:          st.Steps,
		CurrentStep:    st.Index,
		ElapsedSeconds: st.ElapsedSeconds,
		CompletedSteps: st.CompletedSteps,
	}
}

func fmtSeconds(secs int) string {
	return (time.Duration(secs) * time.Second).String()
}

func fmtMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
