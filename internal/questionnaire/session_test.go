package questionnaire

import (
	"errors"
	"testing"
	"time"
)

func TestStatementsMatchItemCount(t *testing.T) {
	if len(Statements) != 44 {
		t.Fatalf("expected 44 statements, got %d", len(Statements))
	}
	if len(Options) != 5 {
		t.Fatalf("expected 5 options, got %d", len(Options))
	}
	q, ok := QuestionAt(43)
	if !ok || q.Item != 44 || q.Statement != "Is sophisticated in art, music, or literature" {
		t.Fatalf("unexpected last question %+v", q)
	}
	if _, ok := QuestionAt(44); ok {
		t.Fatalf("expected no question past the end")
	}
}

func TestSessionAnswerAdvancesWithoutMutatingOriginal(t *testing.T) {
	s := NewSession("s1")
	next, err := s.Answer(4)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if next.Step != 1 || next.Answers[1] != 4 {
		t.Fatalf("unexpected session %+v", next)
	}
	if s.Step != 0 || len(s.Answers) != 0 {
		t.Fatalf("original session mutated: %+v", s)
	}
}

func TestSessionAnswerRejectsOutOfRange(t *testing.T) {
	s := NewSession("s1")
	if _, err := s.Answer(0); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := s.Answer(6); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestSessionBackKeepsAnswers(t *testing.T) {
	s := NewSession("s1")
	s, _ = s.Answer(2)
	s, _ = s.Answer(5)
	back := s.Back()
	if back.Step != 1 || back.Answers[2] != 5 {
		t.Fatalf("unexpected session after back %+v", back)
	}
	revised, err := back.Answer(1)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if revised.Answers[2] != 1 || revised.Step != 2 {
		t.Fatalf("expected revised answer, got %+v", revised)
	}
	if first := NewSession("s2").Back(); first.Step != 0 {
		t.Fatalf("back on first step should stay at 0, got %d", first.Step)
	}
}

func TestSessionCompletes(t *testing.T) {
	s := NewSession("s1")
	var err error
	for range Statements {
		s, err = s.Answer(3)
		if err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if !s.Done() || len(s.Answers) != 44 {
		t.Fatalf("expected completed session, got step=%d answers=%d", s.Step, len(s.Answers))
	}
	if _, err := s.Answer(3); !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}
}

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	s := NewSession("abc")
	s, _ = s.Answer(5)
	s, _ = s.Answer(1)

	token, err := codec.Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "abc" || got.Step != 2 || got.Answers[1] != 5 || got.Answers[2] != 1 {
		t.Fatalf("unexpected decoded session %+v", got)
	}
}

func TestTokenCodecRejectsTampering(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	token, err := codec.Encode(NewSession("abc"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	other := NewTokenCodec("other-secret", time.Hour)
	if _, err := other.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := codec.Decode("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestTokenCodecExpiry(t *testing.T) {
	codec := NewTokenCodec("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }
	token, err := codec.Encode(NewSession("abc"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	codec.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := codec.Decode(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenCodecRequiresSecret(t *testing.T) {
	codec := NewTokenCodec("", time.Minute)
	if _, err := codec.Encode(NewSession("abc")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without secret, got %v", err)
	}
}
