package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
)

// MeaningDelimiter separates sub-meanings inside Word.Meaning and
// alternative guesses inside a submitted answer
const MeaningDelimiter = ","

// Hardness flags
const (
	HardnessNormal = 0
	HardnessHard   = 1
)

// Validation errors
var (
	ErrEmptyWord       = errors.New("word cannot be empty")
	ErrEmptyMeaning    = errors.New("meaning cannot be empty")
	ErrInvalidHardness = errors.New("hardness must be 0 or 1")
	ErrEmptyPatch      = errors.New("nothing to update")
)

// Word represents one vocabulary flashcard
type Word struct {
	ID        int64     `db:"id"`
	Word      string    `db:"word"`
	Meaning   string    `db:"meaning"`
	Example   string    `db:"example"`
	Hardness  int       `db:"hardness"`
	CreatedAt time.Time `db:"created_at"`
}

// IsHard reports whether the user marked the word as hard
func (w Word) IsHard() bool {
	return w.Hardness == HardnessHard
}

// Fragments returns the accepted sub-meanings of the word
func (w Word) Fragments() []string {
	return SplitFragments(w.Meaning)
}

// WordFields holds the data needed to create a word
type WordFields struct {
	Word     string
	Meaning  string
	Example  string
	Hardness int
}

// Normalize trims surrounding whitespace from text fields
func (f WordFields) Normalize() WordFields {
	f.Word = strings.TrimSpace(f.Word)
	f.Meaning = strings.TrimSpace(f.Meaning)
	f.Example = strings.TrimSpace(f.Example)
	return f
}

// Validate checks word invariants
func (f WordFields) Validate() error {
	if strings.TrimSpace(f.Word) == "" {
		return ErrEmptyWord
	}
	if len(SplitFragments(f.Meaning)) == 0 {
		return ErrEmptyMeaning
	}
	return validateHardness(f.Hardness)
}

// WordPatch is a partial update, nil fields are left unchanged
type WordPatch struct {
	Word     *string
	Meaning  *string
	Example  *string
	Hardness *int
}

// IsEmpty reports whether the patch changes nothing
func (p WordPatch) IsEmpty() bool {
	return p.Word == nil && p.Meaning == nil && p.Example == nil && p.Hardness == nil
}

// Normalize trims surrounding whitespace from the set text fields
func (p WordPatch) Normalize() WordPatch {
	p.Word = trimPtr(p.Word)
	p.Meaning = trimPtr(p.Meaning)
	p.Example = trimPtr(p.Example)
	return p
}

// Validate checks that the patch keeps word invariants
func (p WordPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Word != nil && strings.TrimSpace(*p.Word) == "" {
		return ErrEmptyWord
	}
	if p.Meaning != nil && len(SplitFragments(*p.Meaning)) == 0 {
		return ErrEmptyMeaning
	}
	if p.Hardness != nil {
		return validateHardness(*p.Hardness)
	}
	return nil
}

// WordFilter is an exact-match filter, set fields are combined with AND
type WordFilter struct {
	ID       *int64
	Word     *string
	Meaning  *string
	Example  *string
	Hardness *int
}

// ByID returns a filter matching a single word
func ByID(id int64) WordFilter {
	return WordFilter{ID: &id}
}

// HardOnly returns a filter matching words marked as hard
func HardOnly() WordFilter {
	h := HardnessHard
	return WordFilter{Hardness: &h}
}

// SplitFragments splits s on MeaningDelimiter, trims every piece and drops empty ones
func SplitFragments(s string) []string {
	trimmed := lo.Map(strings.Split(s, MeaningDelimiter), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Filter(trimmed, func(p string, _ int) bool {
		return p != ""
	})
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int {
	return &i
}

func validateHardness(h int) error {
	if h != HardnessNormal && h != HardnessHard {
		return ErrInvalidHardness
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
