package domain

import "time"

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question models a multiple-choice quiz item as it is persisted.
type Question struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Correct    int      `json:"correct"` // zero-based; not range checked
	ImageQuery string   `json:"imageQuery"`
}

// DecoratedQuestion is a Question with an image URL resolved at read time.
type DecoratedQuestion struct {
	Question
	AnswerImage string `json:"answerImage"`
}

// ChangeAction names the mutation that produced a ChangeEvent.
type ChangeAction string

const (
	ActionAdded     ChangeAction = "added"
	ActionBulkAdded ChangeAction = "bulk-added"
	ActionEdited    ChangeAction = "edited"
	ActionCleared   ChangeAction = "cleared"
)

// ChangeEvent is published to admin subscribers after a successful mutation.
type ChangeEvent struct {
	Action ChangeAction `json:"action"`
	Count  int          `json:"count"`
	At     time.Time    `json:"at"`
}
