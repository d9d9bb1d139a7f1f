package questionnaire

import (
	"errors"

	"ocean-report/internal/domain"
)

var (
	ErrInvalidValue = errors.New("answer must be between 1 and 5")
	ErrCompleted    = errors.New("questionnaire already completed")
)

// Session is the traversal state of one respondent. It is a plain value: handlers
// receive it decoded from the request and hand back an updated copy.
type Session struct {
	ID      string          `json:"id"`
	Step    int             `json:"step"`
	Answers domain.Response `json:"answers"`
}

// NewSession starts at the first statement with no answers.
func NewSession(id string) Session {
	return Session{ID: id, Answers: domain.Response{}}
}

// Done reports whether every statement has been visited.
func (s Session) Done() bool {
	return s.Step >= len(Statements)
}

// Current returns the statement to show for the current step.
func (s Session) Current() (Question, bool) {
	return QuestionAt(s.Step)
}

// Answer records value for the current item and advances one step.
func (s Session) Answer(value int) (Session, error) {
	if s.Done() {
		return s, ErrCompleted
	}
	if value < 1 || value > len(Options) {
		return s, ErrInvalidValue
	}
	next := s.clone()
	next.Answers[s.Step+1] = value
	next.Step++
	return next, nil
}

// Back moves to the previous statement. Answers are kept so they can be revised.
func (s Session) Back() Session {
	next := s.clone()
	if next.Step > 0 {
		next.Step--
	}
	return next
}

func (s Session) clone() Session {
	answers := make(domain.Response, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	return Session{ID: s.ID, Step: s.Step, Answers: answers}
}
