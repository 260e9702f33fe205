// internal/session/session.go
//
// A Session is one player's game: the loaded word list, the current round and
// the last status message shown to the player.
//
// Responsibilities:
//   - Load word lists and start a round on success.
//   - Start new rounds from the loaded list.
//   - Apply guesses and translate outcomes/errors into status messages.
//
// Notes:
//   - A Session is not safe for concurrent use; the store serialises access.
//   - Rejected actions never touch the current list or round.

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNoWords is returned by NewRound before any word list was loaded.
var ErrNoWords = errors.New("session: no word list loaded")

// Status messages shown to the player.
const (
	MsgSelectFile   = "Select a word file to start."
	MsgInvalidFile  = "The file has no usable words."
	MsgLoadFirst    = "Load a word file first."
	MsgNewWord      = "New word! Guess a letter."
	MsgEnterLetter  = "Enter a letter."
	MsgOnlyLetters  = "Only letters are allowed."
	MsgAlreadyUsed  = "You already tried that letter."
	MsgWrongLetter  = "Wrong letter!"
	MsgGoodGuess    = "Good guess!"
	MsgWin          = "You won!"
	MsgStartFirst   = "Start a round first."
	MsgRoundOver    = "This round is over. Start a new word."
	msgGameOverTmpl = "Game over! The word was %s."
)

// Session holds one player's state.
type Session struct {
	ID        string
	Words     game.WordList
	Round     game.Round
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the round view plus session-level fields.
type View struct {
	game.View
	Message   string `json:"message"`
	WordCount int    `json:"wordCount"`
}

// New returns an empty session waiting for a word list.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Message:   MsgSelectFile,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LoadWords replaces the word list and starts a round.
// On game.ErrEmptyList the previous list and round are kept.
func (s *Session) LoadWords(list game.WordList, pick game.Picker) error {
	if list.Len() == 0 {
		s.Message = MsgInvalidFile
		return game.ErrEmptyList
	}
	s.Words = list
	s.start(pick)
	return nil
}

// LoadLines is LoadWords for raw, untrimmed lines.
func (s *Session) LoadLines(lines []string, pick game.Picker) error {
	list, err := game.LoadWords(lines)
	if err != nil {
		s.Message = MsgInvalidFile
		return err
	}
	return s.LoadWords(list, pick)
}

// NewRound starts a new round from the loaded list.
func (s *Session) NewRound(pick game.Picker) error {
	if s.Words.Len() == 0 {
		s.Message = MsgLoadFirst
		return ErrNoWords
	}
	s.start(pick)
	return nil
}

func (s *Session) start(pick game.Picker) {
	s.Round = game.StartRound(s.Words, pick)
	s.Message = MsgNewWord
}

// Guess applies a guess to the current round and updates the message.
// The returned error is one of the game guess errors.
func (s *Session) Guess(input string) (game.Outcome, error) {
	next, out, err := s.Round.Guess(input)
	if err != nil {
		s.Message = messageFor(err)
		return "", err
	}
	s.Round = next
	switch out {
	case game.OutcomeWrong:
		s.Message = MsgWrongLetter
	default:
		s.Message = MsgGoodGuess
	}
	switch s.Round.Status() {
	case game.StateLost:
		s.Message = fmt.Sprintf(msgGameOverTmpl, s.Round.Word())
	case game.StateWon:
		s.Message = MsgWin
	}
	return out, nil
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) { s.UpdatedAt = now }

// View returns the current display state.
func (s *Session) View() View {
	return View{
		View:      s.Round.View(),
		Message:   s.Message,
		WordCount: s.Words.Len(),
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, game.ErrEmptyInput):
		return MsgEnterLetter
	case errors.Is(err, game.ErrNonLetter):
		return MsgOnlyLetters
	case errors.Is(err, game.ErrDuplicateGuess):
		return MsgAlreadyUsed
	case errors.Is(err, game.ErrNotStarted):
		return MsgStartFirst
	case errors.Is(err, game.ErrRoundOver):
		return MsgRoundOver
	}
	return err.Error()
}
