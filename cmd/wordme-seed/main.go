// Command wordme-seed loads words into the catalogue configured by the same
// environment as the server (STORE_DRIVER, SQLITE_PATH, WORDME_MONGO_URI, ...).
//
//	wordme-seed                      # embedded default list
//	wordme-seed -file words.txt      # one word per line, # comments allowed
//	wordme-seed -file - < words.txt  # read stdin
//	wordme-seed -hash-token s3cret   # print a bcrypt hash for ADMIN_TOKEN_HASH
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gameshub/wordme/assets"
	"github.com/gameshub/wordme/internal/config"
	"github.com/gameshub/wordme/internal/identity"
	"github.com/gameshub/wordme/internal/words"
)

func main() {
	file := flag.String("file", "", "word list to load (\"-\" for stdin); default is the embedded list")
	hashToken := flag.String("hash-token", "", "print the bcrypt hash of this admin token and exit")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *hashToken != "" {
		h, err := identity.HashToken(*hashToken)
		if err != nil {
			log.Fatal().Err(err).Msg("hashing token")
		}
		fmt.Println(h)
		return
	}

	_ = godotenv.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *file); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}

func run(ctx context.Context, file string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	list, err := load(file)
	if err != nil {
		return err
	}

	cat, err := words.Open(ctx, words.OpenOptions{
		Driver:     cfg.StoreDriver,
		SQLitePath: cfg.SQLitePath,
		MongoURI:   cfg.MongoURI,
		MongoDB:    cfg.MongoDatabase,
		MongoRetry: words.RetryPolicy{Attempts: 3, Delay: time.Second},
	})
	if err != nil {
		return err
	}
	defer cat.Close(context.Background())

	rep, err := words.Seed(ctx, cat, list)
	if err != nil {
		return err
	}
	st, err := cat.Stats(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("inserted", rep.Inserted).
		Int("existing", rep.Existing).
		Int("invalid", rep.Invalid).
		Int("words5", st.Words5).
		Int("words6", st.Words6).
		Int("words7", st.Words7).
		Msg("done")
	return nil
}

func load(file string) ([]string, error) {
	switch file {
	case "":
		return assets.DefaultWords()
	case "-":
		return words.ReadWordLines(bufio.NewScanner(os.Stdin))
	default:
		return words.ReadWordFile(file)
	}
}
