package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ocean-report/internal/domain"
	"ocean-report/internal/metrics"
	"ocean-report/internal/questionnaire"
	"ocean-report/internal/scoring"
)

var ErrAssessmentNotConfigured = errors.New("assessment service not configured")

// AssessmentState is returned after every questionnaire step.
type AssessmentState struct {
	Token    string                  `json:"token"`
	Question *questionnaire.Question `json:"question,omitempty"`
	Done     bool                    `json:"done"`
	Answered int                     `json:"answered"`
}

// AssessmentResult holds the scores for whatever has been answered so far.
type AssessmentResult struct {
	Scores   domain.TraitScore `json:"scores"`
	Complete bool              `json:"complete"`
	Missing  []int             `json:"missing_items,omitempty"`
}

// AssessmentService drives the questionnaire. It keeps no state: every call decodes
// the session from its token and returns a fresh one.
type AssessmentService struct {
	codec   *questionnaire.TokenCodec
	key     domain.ScoringKey
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewAssessmentService(codec *questionnaire.TokenCodec, key domain.ScoringKey, m *metrics.Metrics, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == nil {
		key = scoring.DefaultKey()
	}
	return &AssessmentService{codec: codec, key: key, metrics: m, logger: logger}
}

func (s *AssessmentService) Start() (AssessmentState, error) {
	if s == nil || s.codec == nil {
		return AssessmentState{}, ErrAssessmentNotConfigured
	}
	session := questionnaire.NewSession(uuid.NewString())
	state, err := s.state(session)
	if err != nil {
		return AssessmentState{}, err
	}
	s.metrics.AssessmentStarted()
	s.logger.Info("assessment started", zap.String("session_id", session.ID))
	return state, nil
}

func (s *AssessmentService) Answer(token string, value int) (AssessmentState, error) {
	session, err := s.Session(token)
	if err != nil {
		return AssessmentState{}, err
	}
	next, err := session.Answer(value)
	if err != nil {
		return AssessmentState{}, err
	}
	if next.Done() {
		s.metrics.AssessmentCompleted()
		s.logger.Info("assessment completed", zap.String("session_id", next.ID))
	}
	return s.state(next)
}

func (s *AssessmentService) Back(token string) (AssessmentState, error) {
	session, err := s.Session(token)
	if err != nil {
		return AssessmentState{}, err
	}
	return s.state(session.Back())
}

func (s *AssessmentService) Results(token string) (AssessmentResult, error) {
	session, err := s.Session(token)
	if err != nil {
		return AssessmentResult{}, err
	}
	return s.Score(session.Answers), nil
}

// Score applies the configured key; unanswered items count as neutral.
func (s *AssessmentService) Score(answers domain.Response) AssessmentResult {
	missing := scoring.MissingItems(answers, scoring.TotalItems)
	return AssessmentResult{
		Scores:   scoring.Score(answers, s.key).Ordered(),
		Complete: len(missing) == 0,
		Missing:  missing,
	}
}

// Session decodes a session token.
func (s *AssessmentService) Session(token string) (questionnaire.Session, error) {
	if s == nil || s.codec == nil {
		return questionnaire.Session{}, ErrAssessmentNotConfigured
	}
	return s.codec.Decode(token)
}

func (s *AssessmentService) state(session questionnaire.Session) (AssessmentState, error) {
	token, err := s.codec.Encode(session)
	if err != nil {
		return AssessmentState{}, fmt.Errorf("encode session: %w", err)
	}
	state := AssessmentState{Token: token, Done: session.Done(), Answered: len(session.Answers)}
	if q, ok := session.Current(); ok {
		state.Question = &q
	}
	return state, nil
}
