package postgres

import (
	"errors"
	"testing"

	"photo-quiz-service/internal/domain"
)

func TestDecodeEmptyArray(t *testing.T) {
	questions, err := decode([]byte(`[]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if questions == nil || len(questions) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", questions)
	}
}

func TestDecodeNullIsEmpty(t *testing.T) {
	questions, err := decode([]byte(`null`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if questions == nil || len(questions) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", questions)
	}
}

func TestDecodeQuestions(t *testing.T) {
	raw := `[{"question":"Q","options":["a","b","c","d"],"correct":2,"imageQuery":"cats"}]`
	questions, err := decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 1 || questions[0].Correct != 2 || questions[0].ImageQuery != "cats" {
		t.Fatalf("unexpected questions %+v", questions)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	if _, err := decode([]byte(`{not json`)); !errors.Is(err, domain.ErrCorruptStore) {
		t.Fatalf("expected corrupt store error, got %v", err)
	}
}

func TestNewQuestionStoreDefaultsBank(t *testing.T) {
	if s := NewQuestionStore(nil, ""); s.bank != DefaultBank {
		t.Fatalf("expected default bank, got %q", s.bank)
	}
}
