package game

import "errors"

var (
	// ErrEmptyList is returned by LoadWords when no usable word remains.
	ErrEmptyList = errors.New("game: word list is empty")

	ErrEmptyInput     = errors.New("game: empty guess")
	ErrNonLetter      = errors.New("game: guess is not a letter")
	ErrDuplicateGuess = errors.New("game: letter already guessed")

	// ErrNotStarted is returned when guessing on the zero Round.
	ErrNotStarted = errors.New("game: round not started")
	// ErrRoundOver is returned when guessing after the round was won or lost.
	ErrRoundOver = errors.New("game: round is over")
)
