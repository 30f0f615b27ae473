// internal/words/words.go
//
// Accepted-word catalogue for Wordme.
//
// Responsibilities:
//   - Normalize and validate admin input (5–7 unaccented letters, uppercase).
//   - Add / rename / remove words, mapping storage failures to apperr kinds.
//   - List one length bucket with prefix search and fixed-size pages.
//   - Count words per bucket.
//   - Answer membership queries for guesses and draw random 5-letter targets.
//
// Buckets are logical: a Backend keeps one table or collection keyed by
// (length, text) with a unique constraint on text, so a length-changing rename
// is a single atomic row update and duplicates are rejected by storage.

package words

import (
	"context"
	"time"

	"github.com/gameshub/wordme/internal/apperr"
)

// PerPage is the fixed page size of List.
const PerPage = 20

// TargetLength is the length of the words a game is played with.
const TargetLength = 5

// Word is one catalogue entry.
type Word struct {
	ID        string
	Text      string
	Length    int
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListQuery selects one page of a bucket.
type ListQuery struct {
	Length int
	Search string // optional prefix, folded like a word
	Page   int    // 1-based; values < 1 mean 1
}

// Page is one page of List results.
type Page struct {
	Items      []Word
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Stats counts words per bucket.
type Stats struct {
	Words5 int
	Words6 int
	Words7 int
	Total  int
}

// Backend is the storage contract behind a Catalogue.
type Backend interface {
	// Insert stores w; apperr.Conflict if w.Text exists.
	Insert(ctx context.Context, w Word) (Word, error)
	// Rename sets text and length of id; apperr.NotFound, apperr.Conflict.
	Rename(ctx context.Context, id, text string, at time.Time) (Word, error)
	// Delete removes id; apperr.NotFound.
	Delete(ctx context.Context, id string) error
	// Find returns words of length starting with prefix, ordered by text,
	// plus the total number of matches.
	Find(ctx context.Context, length int, prefix string, offset, limit int) ([]Word, int, error)
	// CountByLength returns the number of words per length.
	CountByLength(ctx context.Context) (map[int]int, error)
	// Exists reports whether text is stored.
	Exists(ctx context.Context, text string) (bool, error)
	// Sample returns one uniformly random word of length; apperr.Unavailable
	// when the bucket is empty.
	Sample(ctx context.Context, length int) (string, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Catalogue applies normalization and paging on top of a Backend.
type Catalogue struct {
	b   Backend
	now func() time.Time
}

// NewCatalogue wraps b.
func NewCatalogue(b Backend) *Catalogue {
	return &Catalogue{b: b, now: time.Now}
}

// Add normalizes raw and stores it.
func (c *Catalogue) Add(ctx context.Context, raw, createdBy string) (Word, error) {
	text, err := Normalize(raw)
	if err != nil {
		return Word{}, err
	}
	now := c.now().UTC()
	return c.b.Insert(ctx, Word{
		Text:      text,
		Length:    len(text),
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update renames id to the normalized form of raw. A new length moves the
// word to that bucket.
func (c *Catalogue) Update(ctx context.Context, id, raw string) (Word, error) {
	text, err := Normalize(raw)
	if err != nil {
		return Word{}, err
	}
	if id == "" {
		return Word{}, apperr.New(apperr.NotFound, "word not found")
	}
	return c.b.Rename(ctx, id, text, c.now().UTC())
}

// Remove deletes id.
func (c *Catalogue) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperr.New(apperr.NotFound, "word not found")
	}
	return c.b.Delete(ctx, id)
}

// List returns one page of the q.Length bucket.
func (c *Catalogue) List(ctx context.Context, q ListQuery) (Page, error) {
	if !ValidLength(q.Length) {
		return Page{}, apperr.New(apperr.Validation, "length must be 5, 6 or 7")
	}
	page := max(1, q.Page)
	items, total, err := c.b.Find(ctx, q.Length, Fold(q.Search), (page-1)*PerPage, PerPage)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Word{}
	}
	return newPage(items, page, total), nil
}

func newPage(items []Word, page, total int) Page {
	totalPages := (total + PerPage - 1) / PerPage
	return Page{
		Items:      items,
		Page:       page,
		PerPage:    PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Stats counts words per bucket.
func (c *Catalogue) Stats(ctx context.Context) (Stats, error) {
	counts, err := c.b.CountByLength(ctx)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Words5: counts[5], Words6: counts[6], Words7: counts[7]}
	s.Total = s.Words5 + s.Words6 + s.Words7
	return s, nil
}

// Contains reports whether word, once folded, is an accepted word.
func (c *Catalogue) Contains(ctx context.Context, word string) (bool, error) {
	text := Fold(word)
	if !ValidLength(len(text)) {
		return false, nil
	}
	return c.b.Exists(ctx, text)
}

// SampleOne draws a uniformly random target word.
func (c *Catalogue) SampleOne(ctx context.Context) (string, error) {
	return c.b.Sample(ctx, TargetLength)
}

// Ping checks the backend is reachable.
func (c *Catalogue) Ping(ctx context.Context) error { return c.b.Ping(ctx) }

// Close releases the backend.
func (c *Catalogue) Close(ctx context.Context) error { return c.b.Close(ctx) }
