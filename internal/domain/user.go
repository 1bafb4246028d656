package domain

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle           UserState = "idle"
	StateWaitingWord    UserState = "waiting_word"
	StateWaitingMeaning UserState = "waiting_meaning"
	StateWaitingExample UserState = "waiting_example"
	StateDrilling       UserState = "drilling"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State          UserState
	CurrentWord    string
	CurrentMeaning string
}
