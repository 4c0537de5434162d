package domain

type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusEmpty     RunStatus = "empty"
	RunStatusFailed    RunStatus = "failed"
)

// Active reports whether a run with this status still occupies the single run slot.
func (s RunStatus) Active() bool {
	return s == RunStatusQueued || s == RunStatusRunning
}

type FailureStage string

const (
	FailureStageParse FailureStage = "parse"
)

// ProductFailure records one product that could not be reconciled during a run.
type ProductFailure struct {
	Slug       string       `json:"slug"`
	UpstreamID string       `json:"upstream_id,omitempty"`
	Stage      FailureStage `json:"stage"`
	Message    string       `json:"message"`
}
