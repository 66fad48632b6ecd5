package domain

import "time"

// DefaultPoints is awarded for a correct answer when the source omits a value.
const DefaultPoints = 1

// Question is a normalized multiple-choice question. Immutable once loaded.
type Question struct {
	Text         string   `json:"text"`
	Description  string   `json:"description"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Points       int      `json:"points"`
}

// QuestionSet is the fixed, ordered draw for one attempt.
type QuestionSet []Question

// AnswerRecord is one entry of the append-only per-attempt answer log.
type AnswerRecord struct {
	QuestionIndex int    `json:"questionIndex"`
	QuestionText  string `json:"questionText"`
	Chosen        string `json:"chosen"`
	Correct       bool   `json:"correct"`
}

// Phase is the lifecycle phase of a quiz session.
type Phase string

const (
	PhaseInProgress    Phase = "in_progress"
	PhaseInvalidated   Phase = "invalidated"
	PhaseCompletedPass Phase = "completed_pass"
	PhaseCompletedFail Phase = "completed_fail"
)

// Terminal reports whether the phase admits no further transitions.
func (p Phase) Terminal() bool {
	return p == PhaseInvalidated || p == PhaseCompletedPass || p == PhaseCompletedFail
}

// AttemptStatus is the status reported to the remote attempt log.
type AttemptStatus string

const (
	AttemptPassed      AttemptStatus = "passed"
	AttemptFailed      AttemptStatus = "failed"
	AttemptInvalidated AttemptStatus = "invalidated"
)

// AttemptResult is the value object handed to the remote persistence collaborator.
type AttemptResult struct {
	AttemptID     string        `json:"attemptId"`
	Room          string        `json:"room"`
	Participant   string        `json:"participant"`
	StartedAt     time.Time     `json:"startedAt"`
	FinishedAt    time.Time     `json:"finishedAt"`
	QuestionCount int           `json:"questionCount"`
	CorrectCount  int           `json:"correctCount"`
	ScorePercent  int           `json:"scorePercent"`
	TotalPoints   int           `json:"totalPoints"`
	Status        AttemptStatus `json:"status"`
}

// Reward is a prize descriptor from the fixed catalog.
type Reward struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Label    string `json:"label"`
	Location string `json:"location"`
	Icon     string `json:"icon"`
}

// ClaimTicket is the payload the registration page redeems after a perfect score.
type ClaimTicket struct {
	Reward Reward    `json:"reward"`
	Code   string    `json:"code"`
	Date   time.Time `json:"date"`
	Room   string    `json:"room"`
}
