// Package drill implements a flashcard drill: a shuffled queue of words
// presented one at a time, answers checked against the word meaning, and
// missed cards put back into the queue until every card is solved.
package drill

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"goeha/internal/domain"
)

// State of a drill session
type State int

const (
	StateIdle State = iota
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result of a submitted answer
type Result int

const (
	// ResultIgnored means the answer was blank and nothing changed
	ResultIgnored Result = iota
	ResultCorrect
	ResultIncorrect
)

func (r Result) String() string {
	switch r {
	case ResultIgnored:
		return "ignored"
	case ResultCorrect:
		return "correct"
	case ResultIncorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

var (
	// ErrNothingToDrill is returned by Start for an empty word list
	ErrNothingToDrill = errors.New("nothing to drill")
	// ErrContractViolation is returned when the session is driven out of
	// order. The session is left unchanged.
	ErrContractViolation = errors.New("drill: contract violation")
)

// Option configures a Session
type Option func(*Session)

// WithMatcher sets the answer matching rule, MatchAnyFragment by default
func WithMatcher(m Matcher) Option {
	return func(s *Session) {
		if m != nil {
			s.match = m
		}
	}
}

// WithRequeue sets where missed cards go, RequeueAppend by default
func WithRequeue(strategy RequeueStrategy) Option {
	return func(s *Session) {
		s.requeue = strategy
	}
}

// WithRand sets the random source used for shuffling and requeueing
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Session is one run through a word queue. It is not safe for concurrent
// use: a single goroutine drives it (see Driver).
type Session struct {
	queue   []domain.Word
	current *domain.Word
	total   int
	solved  int
	wrong   int
	state   State

	// set after a miss until Advance is called
	awaitingAdvance bool

	match   Matcher
	requeue RequeueStrategy
	rng     *rand.Rand
}

// NewSession creates an idle session
func NewSession(opts ...Option) *Session {
	s := &Session{
		match:   MatchAnyFragment,
		requeue: RequeueAppend,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start copies and shuffles entries into the queue and presents the first card
func (s *Session) Start(entries []domain.Word) error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: start called while %s", ErrContractViolation, s.state)
	}
	if len(entries) == 0 {
		return ErrNothingToDrill
	}

	s.queue = make([]domain.Word, len(entries))
	copy(s.queue, entries)
	s.rng.Shuffle(len(s.queue), func(i, j int) {
		s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
	})

	s.total = len(entries)
	s.solved = 0
	s.wrong = 0
	s.state = StateRunning
	s.pop()
	return nil
}

// SubmitAnswer judges text against the current card.
// Blank text is ignored. A correct answer advances to the next card; an
// incorrect one requeues the current card and keeps it current until
// Advance is called.
func (s *Session) SubmitAnswer(text string) (Result, error) {
	if err := s.checkAnswerable("submit"); err != nil {
		return ResultIgnored, err
	}
	if strings.TrimSpace(text) == "" {
		return ResultIgnored, nil
	}
	return s.apply(s.match(text, s.current.Meaning)), nil
}

// Apply records an externally decided verdict for the current card with
// the same transition as SubmitAnswer
func (s *Session) Apply(correct bool) (Result, error) {
	if err := s.checkAnswerable("apply"); err != nil {
		return ResultIgnored, err
	}
	return s.apply(correct), nil
}

// Check reports whether text would be judged correct for the current card
// without changing the session
func (s *Session) Check(text string) bool {
	if s.current == nil || strings.TrimSpace(text) == "" {
		return false
	}
	return s.match(text, s.current.Meaning)
}

// Advance moves past a missed card to the next one, or completes the
// session when the queue is empty. An unanswered card cannot be skipped.
func (s *Session) Advance() error {
	if s.state != StateRunning {
		return fmt.Errorf("%w: advance called while %s", ErrContractViolation, s.state)
	}
	if !s.awaitingAdvance {
		return fmt.Errorf("%w: advance called before the current card was missed", ErrContractViolation)
	}
	s.awaitingAdvance = false
	s.pop()
	return nil
}

// ProgressFraction returns solved/total in [0,1], 0 before Start
func (s *Session) ProgressFraction() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.solved) / float64(s.total)
}

// State returns the session state
func (s *Session) State() State { return s.state }

// Current returns a copy of the card being tested, false if there is none
func (s *Session) Current() (domain.Word, bool) {
	if s.current == nil {
		return domain.Word{}, false
	}
	return *s.current, true
}

// Queue returns a copy of the cards waiting after the current one
func (s *Session) Queue() []domain.Word {
	q := make([]domain.Word, len(s.queue))
	copy(q, s.queue)
	return q
}

// AwaitingAdvance reports whether the last answer was a miss that still
// needs an Advance call
func (s *Session) AwaitingAdvance() bool { return s.awaitingAdvance }

// Total returns the number of distinct cards in the session
func (s *Session) Total() int { return s.total }

// Solved returns the number of correct answers
func (s *Session) Solved() int { return s.solved }

// Wrong returns the number of incorrect answers
func (s *Session) Wrong() int { return s.wrong }

func (s *Session) checkAnswerable(op string) error {
	if s.state != StateRunning {
		return fmt.Errorf("%w: %s called while %s", ErrContractViolation, op, s.state)
	}
	if s.awaitingAdvance {
		return fmt.Errorf("%w: %s called before advancing past a missed card", ErrContractViolation, op)
	}
	return nil
}

func (s *Session) apply(correct bool) Result {
	if correct {
		s.solved++
		s.pop()
		return ResultCorrect
	}

	s.wrong++
	s.queue = s.requeue.insert(s.queue, *s.current, s.rng)
	s.awaitingAdvance = true
	return ResultIncorrect
}

func (s *Session) pop() {
	if len(s.queue) == 0 {
		s.current = nil
		s.state = StateComplete
		return
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &next
}
