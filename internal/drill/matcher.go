package drill

import (
	"fmt"
	"strings"

	"goeha/internal/domain"

	"github.com/samber/lo"
)

// Matcher decides whether a non-blank answer is correct for a meaning
type Matcher func(answer, meaning string) bool

// MatchAnyFragment accepts the answer if any of its comma-separated
// fragments equals any fragment of the meaning. Comparison is
// case-sensitive on trimmed fragments.
func MatchAnyFragment(answer, meaning string) bool {
	accepted := domain.SplitFragments(meaning)
	return lo.SomeBy(domain.SplitFragments(answer), func(candidate string) bool {
		return lo.Contains(accepted, candidate)
	})
}

// MatchExact accepts the answer only if it equals the whole meaning
func MatchExact(answer, meaning string) bool {
	answer = strings.TrimSpace(answer)
	return answer != "" && answer == strings.TrimSpace(meaning)
}

// MatchAllFragments accepts the answer if every fragment of it is one of
// the meaning's fragments
func MatchAllFragments(answer, meaning string) bool {
	candidates := domain.SplitFragments(answer)
	if len(candidates) == 0 {
		return false
	}
	return lo.Every(domain.SplitFragments(meaning), candidates)
}

// MatcherByName maps a configuration value to a Matcher
func MatcherByName(name string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any":
		return MatchAnyFragment, nil
	case "exact":
		return MatchExact, nil
	case "all":
		return MatchAllFragments, nil
	default:
		return nil, fmt.Errorf("unknown match mode %q", name)
	}
}
