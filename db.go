// db.go
//
// Startup helpers for the word catalogue.
// Responsibilities:
//   - Seeding the catalogue from WORDS_SEED_FILE or the embedded default list.
//   - Seeding automatically when the target pool is empty, so a fresh
//     deployment can start games right away.
//
// Seeding is insert-if-absent: words already stored are left untouched.

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gameshub/wordme/assets"
	"github.com/gameshub/wordme/internal/config"
	"github.com/gameshub/wordme/internal/words"
)

// seedIfNeeded seeds when SEED_ON_START is set or no 5-letter word exists.
func seedIfNeeded(ctx context.Context, cfg *config.Config, cat *words.Catalogue) error {
	st, err := cat.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading word stats: %w", err)
	}
	if !cfg.SeedOnStart && st.Words5 > 0 {
		log.Info().Int("words5", st.Words5).Int("total", st.Total).Msg("catalogue loaded")
		return nil
	}

	list, src, err := seedList(cfg.WordsSeedFile)
	if err != nil {
		return err
	}
	rep, err := words.Seed(ctx, cat, list)
	if err != nil {
		return fmt.Errorf("seeding words: %w", err)
	}
	log.Info().
		Str("source", src).
		Int("inserted", rep.Inserted).
		Int("existing", rep.Existing).
		Int("invalid", rep.Invalid).
		Msg("catalogue seeded")
	return nil
}

// seedList loads path, or the embedded list when path is empty.
func seedList(path string) ([]string, string, error) {
	if path == "" {
		list, err := assets.DefaultWords()
		if err != nil {
			return nil, "", fmt.Errorf("reading embedded word list: %w", err)
		}
		return list, "embedded", nil
	}
	list, err := words.ReadWordFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return list, path, nil
}
