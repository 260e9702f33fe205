// internal/game/engine.go
//
// Round engine for a single hangman session.
// Responsibilities:
//   - Normalize raw word lines into a WordList.
//   - Start rounds with a uniformly random (or injected) word choice.
//   - Validate and apply letter guesses, returning the next Round.
//   - Derive the masked word, the round state and the display snapshot.
//
// Notes:
//   - Rounds are immutable values; callers replace their Round with the one
//     returned by Guess.
//   - Status evaluates the loss and win conditions on every call; there is
//     no stored terminal flag.
package game

import (
	"crypto/rand"
	"io"
	"math/big"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Picker returns an index in [0, n). n is always > 0.
type Picker func(n int) int

// randReader is the entropy source of CryptoPicker.
var randReader io.Reader = rand.Reader

// CryptoPicker picks a uniformly random index using crypto/rand.
// If the entropy source fails it logs a warning and falls back to index 0.
func CryptoPicker(n int) int {
	nBig, err := rand.Int(randReader, big.NewInt(int64(n)))
	if err != nil {
		log.Warn().Err(err).Int("words", n).Msg("random word pick failed, using first word")
		return 0
	}
	return int(nBig.Int64())
}

// LoadWords trims every line and drops the empty ones.
// Returns ErrEmptyList if nothing is left.
func LoadWords(lines []string) (WordList, error) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if w := strings.TrimSpace(line); w != "" {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return WordList{}, ErrEmptyList
	}
	return WordList{words: out}, nil
}

// StartRound picks a word from words and returns a fresh round for it.
// A nil pick uses CryptoPicker. An empty list yields the zero Round.
func StartRound(words WordList, pick Picker) Round {
	n := words.Len()
	if n == 0 {
		return Round{}
	}
	if pick == nil {
		pick = CryptoPicker
	}
	i := pick(n)
	if i < 0 || i >= n {
		i = ((i % n) + n) % n
	}
	return Round{word: strings.ToUpper(words.words[i])}
}

// ParseGuess validates raw input and returns its first character uppercased.
func ParseGuess(input string) (rune, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrEmptyInput
	}
	c, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(c) {
		return 0, ErrNonLetter
	}
	return unicode.ToUpper(c), nil
}

// Guess applies one letter guess and returns the next round.
//
// Rejections never change the round:
//   - ErrNotStarted / ErrRoundOver when the round is not in progress.
//   - ErrEmptyInput, ErrNonLetter for invalid input.
//   - ErrDuplicateGuess when the letter was already tried.
func (r Round) Guess(input string) (Round, Outcome, error) {
	switch r.Status() {
	case StateNotStarted:
		return r, "", ErrNotStarted
	case StateWon, StateLost:
		return r, "", ErrRoundOver
	}

	c, err := ParseGuess(input)
	if err != nil {
		return r, "", err
	}
	i, found := slices.BinarySearch(r.guessed, c)
	if found {
		return r, "", ErrDuplicateGuess
	}

	next := Round{
		word:    r.word,
		guessed: slices.Insert(slices.Clone(r.guessed), i, c),
		wrong:   r.wrong,
	}
	if !strings.ContainsRune(r.word, c) {
		next.wrong++
		return next, OutcomeWrong, nil
	}
	return next, OutcomeHit, nil
}

// Guessed reports whether c (case-insensitive) has been guessed.
func (r Round) Guessed(c rune) bool {
	_, found := slices.BinarySearch(r.guessed, unicode.ToUpper(c))
	return found
}

// Letters returns the guessed letters in sorted order.
func (r Round) Letters() []string {
	out := make([]string, len(r.guessed))
	for i, c := range r.guessed {
		out[i] = string(c)
	}
	return out
}

// Masked renders the word with unguessed letters replaced by '_',
// one character per slot, separated by single spaces.
func (r Round) Masked() string {
	var b strings.Builder
	for i, c := range r.word {
		if i > 0 {
			b.WriteByte(' ')
		}
		if !unicode.IsLetter(c) || r.Guessed(c) {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Status evaluates the round. Loss is checked before win.
func (r Round) Status() State {
	if r.word == "" {
		return StateNotStarted
	}
	if r.wrong >= MaxErrors {
		return StateLost
	}
	for _, c := range r.word {
		if unicode.IsLetter(c) && !r.Guessed(c) {
			return StateInProgress
		}
	}
	return StateWon
}

// View builds the display snapshot. The word is revealed only once the
// round is over.
func (r Round) View() View {
	st := r.Status()
	v := View{
		Masked:     r.Masked(),
		State:      st,
		WrongCount: r.wrong,
		MaxErrors:  MaxErrors,
		Guessed:    r.Letters(),
		Length:     utf8.RuneCountInString(r.word),
	}
	if st.Terminal() {
		v.Word = r.word
	}
	return v
}
