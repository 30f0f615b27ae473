package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameshub/wordme/assets"
	"github.com/gameshub/wordme/internal/config"
	"github.com/gameshub/wordme/internal/identity"
	"github.com/gameshub/wordme/internal/words"
)

func openTestCatalogue(t *testing.T) *words.Catalogue {
	t.Helper()
	cat, err := words.Open(context.Background(), words.OpenOptions{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "wordme.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close(context.Background()) })
	return cat
}

func TestEmbeddedListSeedsTargets(t *testing.T) {
	list, err := assets.DefaultWords()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	cat := openTestCatalogue(t)
	require.NoError(t, seedIfNeeded(context.Background(), &config.Config{}, cat))

	st, err := cat.Stats(context.Background())
	require.NoError(t, err)
	assert.Positive(t, st.Words5)
	assert.Positive(t, st.Words6)
	assert.Positive(t, st.Words7)

	_, err = cat.SampleOne(context.Background())
	assert.NoError(t, err)
}

func TestSeedSkippedWhenPoolPresent(t *testing.T) {
	ctx := context.Background()
	cat := openTestCatalogue(t)
	_, err := cat.Add(ctx, "CRANE", "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# extra\nTRACE\nslate\n"), 0o644))

	require.NoError(t, seedIfNeeded(ctx, &config.Config{WordsSeedFile: path}, cat))
	st, err := cat.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Words5)

	require.NoError(t, seedIfNeeded(ctx, &config.Config{WordsSeedFile: path, SeedOnStart: true}, cat))
	st, err = cat.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Words5)
}

func TestNewVerifier(t *testing.T) {
	tests := []struct {
		cfg  config.Config
		want any
	}{
		{config.Config{AuthMode: "introspect", AuthServiceURL: "http://auth"}, &identity.Introspector{}},
		{config.Config{AuthMode: "jwt", JWTSecret: "x"}, &identity.JWTVerifier{}},
		{config.Config{AuthMode: "static", AdminTokenHash: "h"}, &identity.StaticVerifier{}},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.AuthMode, func(t *testing.T) {
			v, err := newVerifier(&tt.cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, v)
		})
	}

	_, err := newVerifier(&config.Config{AuthMode: "nope"})
	assert.Error(t, err)
}
