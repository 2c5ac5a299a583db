package app

import (
	"fmt"

	"photo-quiz-service/internal/domain"
)

// QuestionInput is the request shape for add and edit. Pointer fields tell an absent
// value apart from a zero value.
type QuestionInput struct {
	Question   *string  `json:"question"`
	Options    []string `json:"options"`
	Correct    *int     `json:"correct"`
	ImageQuery *string  `json:"imageQuery"`
}

// Validate checks field presence and option count, then returns the domain question.
func (in QuestionInput) Validate() (domain.Question, error) {
	switch {
	case in.Question == nil:
		return domain.Question{}, domain.Missing("question")
	case in.Options == nil:
		return domain.Question{}, domain.Missing("options")
	case in.Correct == nil:
		return domain.Question{}, domain.Missing("correct")
	case in.ImageQuery == nil:
		return domain.Question{}, domain.Missing("imageQuery")
	}
	if len(in.Options) != domain.OptionCount {
		return domain.Question{}, &domain.ValidationError{
			Field:  "options",
			Reason: fmt.Sprintf("must have %d entries, got %d", domain.OptionCount, len(in.Options)),
		}
	}
	options := make([]string, len(in.Options))
	copy(options, in.Options)
	return domain.Question{
		Question:   *in.Question,
		Options:    options,
		Correct:    *in.Correct,
		ImageQuery: *in.ImageQuery,
	}, nil
}
