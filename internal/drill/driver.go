package drill

import (
	"context"
	"errors"
	"strings"
	"time"

	"goeha/internal/domain"
	"goeha/internal/metrics"

	"go.uber.org/zap"
)

// EventType identifies what happened in a driven session
type EventType int

const (
	EventStarted EventType = iota
	EventNothingToDrill
	EventCorrect
	EventIncorrect
	EventNext
	EventComplete
	EventIgnored
	EventBusy
	EventRejected
	EventGradingFailed
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventNothingToDrill:
		return "nothing_to_drill"
	case EventCorrect:
		return "correct"
	case EventIncorrect:
		return "incorrect"
	case EventNext:
		return "next"
	case EventComplete:
		return "complete"
	case EventIgnored:
		return "ignored"
	case EventBusy:
		return "busy"
	case EventRejected:
		return "rejected"
	case EventGradingFailed:
		return "grading_failed"
	default:
		return "unknown"
	}
}

// Event reports a session transition to the host
type Event struct {
	Type EventType
	// Word is the card the event is about
	Word domain.Word
	// Next is the card now waiting for an answer, nil when there is none
	Next     *domain.Word
	Answer   string
	Verdict  Verdict
	Solved   int
	Wrong    int
	Total    int
	Progress float64
	Err      error
}

// Listener receives events on the driver goroutine
type Listener func(Event)

// ErrDriverStopped is returned when posting to a driver whose loop has exited
var ErrDriverStopped = errors.New("drill: driver stopped")

// DriverOption configures a Driver
type DriverOption func(*Driver)

// WithGrader consults g for answers the local matcher rejects
func WithGrader(g Grader) DriverOption {
	return func(d *Driver) {
		d.grader = g
	}
}

// WithAutoAdvance moves to the next card right after a miss
func WithAutoAdvance() DriverOption {
	return func(d *Driver) {
		d.autoAdvance = true
	}
}

// WithLogger sets the driver logger
func WithLogger(logger *zap.Logger) DriverOption {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

type startMsg struct{ entries []domain.Word }

type submitMsg struct{ text string }

type advanceMsg struct{}

type verdictMsg struct {
	word    domain.Word
	answer  string
	verdict Verdict
	err     error
	elapsed time.Duration
}

// Driver owns a Session and mutates it from a single goroutine. Grading
// calls run in their own goroutine and post their verdict back to the
// loop, at most one at a time.
type Driver struct {
	session     *Session
	grader      Grader
	autoAdvance bool
	listener    Listener
	logger      *zap.Logger

	inbox    chan interface{}
	done     chan struct{}
	grading  bool
	finished bool
}

// NewDriver creates a driver for session. Call Run to start the loop.
func NewDriver(session *Session, listener Listener, opts ...DriverOption) *Driver {
	d := &Driver{
		session:  session,
		listener: listener,
		logger:   zap.NewNop(),
		inbox:    make(chan interface{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start posts the word list that starts the session
func (d *Driver) Start(entries []domain.Word) error {
	return d.post(startMsg{entries: entries})
}

// Submit posts an answer for the current card
func (d *Driver) Submit(text string) error {
	return d.post(submitMsg{text: text})
}

// Advance posts a request to move past a missed card
func (d *Driver) Advance() error {
	return d.post(advanceMsg{})
}

// Done is closed when the loop exits
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Run processes messages until ctx is cancelled, the session completes or
// there turns out to be nothing to drill.
// A grading call still in flight when Run returns is abandoned.
func (d *Driver) Run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("Drill driver stopped", zap.Error(ctx.Err()))
			return
		case msg := <-d.inbox:
			d.handle(ctx, msg)
			if d.finished {
				return
			}
		}
	}
}

func (d *Driver) post(msg interface{}) error {
	select {
	case d.inbox <- msg:
		return nil
	case <-d.done:
		return ErrDriverStopped
	}
}

func (d *Driver) handle(ctx context.Context, msg interface{}) {
	switch m := msg.(type) {
	case startMsg:
		d.handleStart(m)
	case submitMsg:
		d.handleSubmit(ctx, m)
	case verdictMsg:
		d.handleVerdict(m)
	case advanceMsg:
		d.handleAdvance()
	}
}

func (d *Driver) handleStart(m startMsg) {
	err := d.session.Start(m.entries)
	switch {
	case errors.Is(err, ErrNothingToDrill):
		d.finished = true
		d.emit(EventNothingToDrill, domain.Word{}, func(e *Event) { e.Err = err })
	case err != nil:
		d.emit(EventRejected, domain.Word{}, func(e *Event) { e.Err = err })
	default:
		metrics.SessionsStarted.Inc()
		d.logger.Info("Drill session started", zap.Int("total", d.session.Total()))
		d.emit(EventStarted, domain.Word{}, nil)
	}
}

func (d *Driver) handleSubmit(ctx context.Context, m submitMsg) {
	if d.grading {
		d.emit(EventBusy, domain.Word{}, func(e *Event) { e.Answer = m.text })
		return
	}

	card, _ := d.session.Current()

	// Local checks first, the grader only sees answers the matcher rejects
	if d.grader == nil || strings.TrimSpace(m.text) == "" || d.session.Check(m.text) {
		res, err := d.session.SubmitAnswer(m.text)
		if err != nil {
			d.emit(EventRejected, card, func(e *Event) { e.Answer = m.text; e.Err = err })
			return
		}
		d.afterResult(res, card, m.text, Verdict{Correct: res == ResultCorrect, Accepted: acceptedFor(res, m.text)})
		return
	}

	if err := d.session.checkAnswerable("submit"); err != nil {
		d.emit(EventRejected, card, func(e *Event) { e.Answer = m.text; e.Err = err })
		return
	}

	d.grading = true
	go func(word domain.Word, answer string) {
		started := time.Now()
		verdict, err := d.grader.Grade(ctx, word, answer)
		// post fails only when the loop has exited
		_ = d.post(verdictMsg{word: word, answer: answer, verdict: verdict, err: err, elapsed: time.Since(started)})
	}(card, m.text)
}

func (d *Driver) handleVerdict(m verdictMsg) {
	d.grading = false
	metrics.GradingDuration.Observe(m.elapsed.Seconds())

	if m.err != nil {
		d.logger.Warn("Grading failed",
			zap.Int64("word_id", m.word.ID),
			zap.Error(m.err),
		)
		d.emit(EventGradingFailed, m.word, func(e *Event) { e.Answer = m.answer; e.Err = m.err })
		return
	}

	res, err := d.session.Apply(m.verdict.Correct)
	if err != nil {
		d.emit(EventRejected, m.word, func(e *Event) { e.Answer = m.answer; e.Err = err })
		return
	}
	d.afterResult(res, m.word, m.answer, m.verdict)
}

func (d *Driver) handleAdvance() {
	card, _ := d.session.Current()
	if !d.session.AwaitingAdvance() {
		d.emit(EventRejected, card, func(e *Event) { e.Err = ErrContractViolation })
		return
	}
	_ = d.session.Advance()
	d.emitNextOrComplete(card)
}

func (d *Driver) afterResult(res Result, card domain.Word, answer string, verdict Verdict) {
	metrics.AnswersTotal.WithLabelValues(res.String()).Inc()

	switch res {
	case ResultIgnored:
		d.emit(EventIgnored, card, nil)
	case ResultCorrect:
		d.emit(EventCorrect, card, func(e *Event) { e.Answer = answer; e.Verdict = verdict })
		if d.session.State() == StateComplete {
			d.complete(card)
		}
	case ResultIncorrect:
		if d.autoAdvance {
			_ = d.session.Advance()
		}
		d.emit(EventIncorrect, card, func(e *Event) { e.Answer = answer; e.Verdict = verdict })
	}
}

func (d *Driver) emitNextOrComplete(card domain.Word) {
	if d.session.State() == StateComplete {
		d.complete(card)
		return
	}
	d.emit(EventNext, card, nil)
}

func (d *Driver) complete(card domain.Word) {
	d.finished = true
	metrics.SessionsCompleted.Inc()
	d.logger.Info("Drill session complete",
		zap.Int("total", d.session.Total()),
		zap.Int("wrong", d.session.Wrong()),
	)
	d.emit(EventComplete, card, nil)
}

func (d *Driver) emit(t EventType, word domain.Word, fill func(*Event)) {
	if d.listener == nil {
		return
	}

	e := Event{
		Type:     t,
		Word:     word,
		Solved:   d.session.Solved(),
		Wrong:    d.session.Wrong(),
		Total:    d.session.Total(),
		Progress: d.session.ProgressFraction(),
	}
	if next, ok := d.session.Current(); ok && !d.session.AwaitingAdvance() {
		e.Next = &next
	}
	if fill != nil {
		fill(&e)
	}
	d.listener(e)
}

func acceptedFor(res Result, answer string) string {
	if res != ResultCorrect {
		return ""
	}
	return strings.TrimSpace(answer)
}
