package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
	"github.com/joao-fontenele/aurana-storefront/internal/config"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/store/memory"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("issues codes up to the target", func(t *testing.T) {
		st := memory.New()
		require.NoError(t, st.IssueCode(ctx, "A1000"))

		added, err := seed(ctx, codes.NewGeneratorWithSource(rand.NewPCG(7, 7)), st, 25)
		require.NoError(t, err)
		assert.Equal(t, 24, added)

		all, err := st.ListCodes(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 25)
		for _, c := range all {
			assert.True(t, codes.Valid(c), c)
		}
	})

	t.Run("rejects targets beyond the code space", func(t *testing.T) {
		st := memory.New()

		added, err := seed(ctx, codes.NewGenerator(), st, codes.Capacity+1)
		require.Error(t, err)
		assert.Zero(t, added)

		all, err := st.ListCodes(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("adds nothing when enough codes exist", func(t *testing.T) {
		st := memory.New()
		require.NoError(t, st.IssueCode(ctx, "A1000"))

		added, err := seed(ctx, codes.NewGenerator(), st, 1)
		require.NoError(t, err)
		assert.Zero(t, added)
	})
}

func TestFirst(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	_, err := first(ctx, st)
	assert.Error(t, err)

	require.NoError(t, st.IssueCode(ctx, "A5000"))
	require.NoError(t, st.IssueCode(ctx, "A2000"))

	code, err := first(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, "A2000", code)
}

func TestWriteQRCodes(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.IssueCode(ctx, "A1234"))
	require.NoError(t, st.IssueCode(ctx, "A4321"))
	dir := filepath.Join(t.TempDir(), "print")

	written, err := writeQRCodes(ctx, st, "https://auranachocolate.com", dir, 128)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	for _, code := range []string{"A1234", "A4321"} {
		data, err := os.ReadFile(filepath.Join(dir, "aurana_qr_"+code+".png"))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{StoreBackend: config.BackendFile, DataDir: dir, BaseURL: "http://localhost:8080"}

	require.NoError(t, run(ctx, logging.Discard(), cfg, []string{"seed", "-n", "3"}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, run(ctx, logging.Discard(), cfg, []string{"first"}, &out))
	assert.Regexp(t, `^A[1-9][0-9]{3}\n$`, out.String())

	assert.Error(t, run(ctx, logging.Discard(), cfg, nil, &out))
	assert.Error(t, run(ctx, logging.Discard(), cfg, []string{"shred"}, &out))
}

func TestOverrideBackend(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	require.NoError(t, overrideBackend(cfg, ""))
	assert.Equal(t, config.BackendPostgres, cfg.StoreBackend)

	require.NoError(t, overrideBackend(cfg, config.BackendMemory))
	assert.Equal(t, config.BackendMemory, cfg.StoreBackend)

	assert.Error(t, overrideBackend(cfg, "sqlite"))
}
