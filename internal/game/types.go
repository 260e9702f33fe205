// internal/game/types.go
//
// Core type definitions for the hangman round engine.
// Defines:
//   - Outcome: result of an accepted guess (hit/wrong).
//   - State:   coarse round state (not_started/in_progress/won/lost).
//   - WordList: immutable list of candidate words for a session.
//   - Round:   immutable state of a single round.
//   - View:    display snapshot handed to the UI/IO layer.

package game

// MaxErrors is the number of wrong guesses that loses a round.
const MaxErrors = 6

// Outcome represents the evaluation of an accepted guess.
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeWrong Outcome = "wrong"
)

// State is the coarse state of a round as observed by Status.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Terminal reports whether s is Won or Lost.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// WordList is an ordered, non-empty list of trimmed words.
// The zero value is empty and cannot start a round.
type WordList struct {
	words []string
}

// Len returns the number of words.
func (l WordList) Len() int { return len(l.words) }

// Words returns a copy of the words in load order.
func (l WordList) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}

// Round holds the state of one play-through. Values are never mutated in
// place: Guess returns the next Round. The zero Round has not started.
type Round struct {
	word    string // uppercased target word
	guessed []rune // uppercased guesses, sorted and unique
	wrong   int    // guesses absent from word
}

// Word returns the uppercased target word.
func (r Round) Word() string { return r.word }

// WrongCount returns the number of wrong guesses so far.
func (r Round) WrongCount() int { return r.wrong }

// View is the derived display state of a round.
type View struct {
	Masked     string   `json:"masked"`
	State      State    `json:"state"`
	WrongCount int      `json:"wrongCount"`
	MaxErrors  int      `json:"maxErrors"`
	Guessed    []string `json:"guessed"`
	Length     int      `json:"length"`
	Word       string   `json:"word,omitempty"` // set once the round is over
}
