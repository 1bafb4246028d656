package drill

import (
	"fmt"
	"math/rand"
	"strings"

	"goeha/internal/domain"
)

// RequeueStrategy decides where a missed card goes back into the queue
type RequeueStrategy int

const (
	// RequeueAppend puts a missed card at the back of the queue
	RequeueAppend RequeueStrategy = iota
	// RequeueRandom inserts a missed card at a uniformly random position
	// of the remaining queue, the back included
	RequeueRandom
)

func (s RequeueStrategy) String() string {
	switch s {
	case RequeueAppend:
		return "append"
	case RequeueRandom:
		return "random"
	default:
		return fmt.Sprintf("RequeueStrategy(%d)", int(s))
	}
}

// RequeueByName maps a configuration value to a RequeueStrategy
func RequeueByName(name string) (RequeueStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "append":
		return RequeueAppend, nil
	case "random":
		return RequeueRandom, nil
	default:
		return RequeueAppend, fmt.Errorf("unknown requeue strategy %q", name)
	}
}

func (s RequeueStrategy) insert(queue []domain.Word, w domain.Word, rng *rand.Rand) []domain.Word {
	if s != RequeueRandom {
		return append(queue, w)
	}

	pos := rng.Intn(len(queue) + 1)
	queue = append(queue, domain.Word{})
	copy(queue[pos+1:], queue[pos:])
	queue[pos] = w
	return queue
}
