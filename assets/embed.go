// assets/embed.go
//
// Embedded default word list served when HANGMAN_WORDS_FILE is not set.
// Lines starting with '#' are comments and are dropped here; blank lines are
// left for the words package to discard.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(s), "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordLines returns the raw lines of the embedded default list.
func WordLines() ([]string, error) {
	return readLines("words.txt")
}
