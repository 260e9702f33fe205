// internal/words/words.go
//
// Provides word list loading for the round engine.
//
// Responsibilities:
//   - Read newline-delimited UTF-8 word files from a reader or a path.
//   - Build game.WordList values (trimmed, empty lines dropped).
//   - Hold the server's default list, loaded once from HANGMAN_WORDS_FILE or
//     the embedded assets/words.txt.
//
// Constraints:
//   • Input must be fully read before LoadWords runs; there is no streaming state.
//   • Words keep their original case; the engine uppercases on round start.

package words

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/game"
)

// maxLine bounds a single line of an uploaded file.
const maxLine = 64 * 1024

const bom = "\uFEFF"

var (
	initOnce   sync.Once
	defaults   game.WordList
	initialErr error
)

// Read returns the raw lines of r. A leading byte order mark is dropped and
// "\r\n" line endings are accepted.
func Read(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		line := sc.Text()
		if len(out) == 0 {
			line = strings.TrimPrefix(line, bom)
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}
	return out, nil
}

// ReadFile loads the raw lines of the file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Load reads r and builds a WordList from it.
// Returns game.ErrEmptyList when r holds no usable word.
func Load(r io.Reader) (game.WordList, error) {
	lines, err := Read(r)
	if err != nil {
		return game.WordList{}, err
	}
	return game.LoadWords(lines)
}

// LoadDefault builds the default list from path, or from the embedded asset
// when path is empty.
func LoadDefault(path string) (game.WordList, error) {
	var (
		lines []string
		err   error
	)
	if path != "" {
		lines, err = ReadFile(path)
	} else {
		lines, err = assets.WordLines()
	}
	if err != nil {
		return game.WordList{}, err
	}
	list, err := game.LoadWords(lines)
	if err != nil {
		return game.WordList{}, fmt.Errorf("default words: %w", err)
	}
	return list, nil
}

// Init loads the default list exactly once.
// Later calls return the first result regardless of path.
func Init(path string) error {
	initOnce.Do(func() {
		defaults, initialErr = LoadDefault(path)
	})
	return initialErr
}

// Default returns the list loaded by Init (empty if Init failed or was not called).
func Default() game.WordList {
	return defaults
}

// Stats returns the number of words in the default list.
func Stats() int {
	return defaults.Len()
}
