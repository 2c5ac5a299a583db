// Package bulk parses the plain-text bulk import format into questions.
//
// A payload holds blocks separated by a blank line. Each block looks like:
//
//	What is 2+2?
//	A) 3
//	B) 4
//	C) 5
//	D) 6
//	Answer: B
//	Image: math numbers
package bulk

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"photo-quiz-service/internal/domain"
)

const (
	answerMarker = "Answer:"
	imageMarker  = "Image:"

	// labelWidth is the fixed option prefix cut ("A) ").
	labelWidth = 3
	minLines   = 3 + domain.OptionCount
)

// BlockError reports a block that was skipped.
type BlockError struct {
	Block  int // zero-based position in the payload
	Reason string
}

func (e BlockError) Error() string {
	return fmt.Sprintf("block %d: %s", e.Block, e.Reason)
}

// Result is the outcome of parsing one payload.
type Result struct {
	Questions []domain.Question
	Skipped   []BlockError
}

// Parse splits text into blocks and extracts one question per well-formed block.
// Malformed blocks are recorded in Result.Skipped and never abort the batch.
func Parse(text string) Result {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var res Result
	for i, block := range strings.Split(text, "\n\n") {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}
		q, err := parseBlock(lines)
		if err != nil {
			res.Skipped = append(res.Skipped, BlockError{Block: i, Reason: err.Error()})
			continue
		}
		res.Questions = append(res.Questions, q)
	}
	return res
}

func parseBlock(lines []string) (domain.Question, error) {
	if len(lines) < minLines {
		return domain.Question{}, fmt.Errorf("expected at least %d lines, got %d", minLines, len(lines))
	}

	answer, ok := findMarker(lines, answerMarker)
	if !ok {
		return domain.Question{}, fmt.Errorf("missing %q line", answerMarker)
	}
	image, ok := findMarker(lines, imageMarker)
	if !ok {
		return domain.Question{}, fmt.Errorf("missing %q line", imageMarker)
	}

	correct, err := answerIndex(answer)
	if err != nil {
		return domain.Question{}, err
	}

	options := make([]string, domain.OptionCount)
	for i := range options {
		options[i] = cutLabel(lines[i+1])
	}

	return domain.Question{
		Question:   lines[0],
		Options:    options,
		Correct:    correct,
		ImageQuery: strings.TrimSpace(strings.TrimPrefix(image, imageMarker)),
	}, nil
}

// answerIndex converts the trailing letter of an answer line to an option index.
func answerIndex(line string) (int, error) {
	trimmed := strings.TrimSpace(line)
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	if !unicode.IsLetter(last) {
		return 0, fmt.Errorf("answer line %q does not end in a letter", trimmed)
	}
	return int(last - 'A'), nil
}

func findMarker(lines []string, marker string) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, marker) {
			return trimmed, true
		}
	}
	return "", false
}

// cutLabel drops the first labelWidth bytes without looking at them.
func cutLabel(line string) string {
	if len(line) <= labelWidth {
		return ""
	}
	return line[labelWidth:]
}

func nonEmptyLines(block string) []string {
	raw := strings.Split(block, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
