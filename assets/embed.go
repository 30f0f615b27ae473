// Package assets embeds the default word list used to seed an empty catalogue.
package assets

import (
	"bufio"
	"embed"

	"github.com/gameshub/wordme/internal/words"
)

//go:embed words.txt
var FS embed.FS

// DefaultWords returns the embedded seed list, as written (not yet folded).
func DefaultWords() ([]string, error) {
	f, err := FS.Open("words.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return words.ReadWordLines(bufio.NewScanner(f))
}
