package drill

import (
	"context"

	"goeha/internal/domain"
)

// Verdict is a grader's judgement of one answer
type Verdict struct {
	Correct bool
	// Accepted is the phrasing the grader accepted, if any
	Accepted string
	// Corrected is a fixed-up version of the user's answer
	Corrected string
	// Score in 0..100
	Score    int
	Feedback string
}

// Grader judges free-text answers the local matcher rejected
type Grader interface {
	Grade(ctx context.Context, word domain.Word, answer string) (Verdict, error)
}
