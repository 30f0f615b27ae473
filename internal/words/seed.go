package words

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/gameshub/wordme/internal/apperr"
)

// SeedReport summarizes a Seed run.
type SeedReport struct {
	Inserted int
	Existing int
	Invalid  int
}

// Seed inserts every acceptable word of list that is not stored yet.
// Existing words are left untouched, so seeding is idempotent.
func Seed(ctx context.Context, cat *Catalogue, list []string) (SeedReport, error) {
	var rep SeedReport

	uniq := lo.Uniq(lo.Map(list, func(w string, _ int) string { return Fold(w) }))
	valid := lo.Filter(uniq, func(w string, _ int) bool { return ValidLength(len(w)) })
	rep.Invalid = len(uniq) - len(valid)

	for _, w := range valid {
		_, err := cat.Add(ctx, w, "")
		switch {
		case err == nil:
			rep.Inserted++
		case apperr.Is(err, apperr.Conflict):
			rep.Existing++
		default:
			return rep, fmt.Errorf("seeding %q: %w", w, err)
		}
	}
	return rep, nil
}

// ReadWordFile loads one word per line, skipping blanks and # comments.
// Words are returned as written; Seed folds them.
func ReadWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWordLines(bufio.NewScanner(f))
}

// ReadWordLines reads words from sc, one per line.
func ReadWordLines(sc *bufio.Scanner) ([]string, error) {
	var out []string
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}
