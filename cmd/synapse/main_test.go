package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/synapselabs/synapse/core"
)

func newTestContext(t *testing.T, args map[string]string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for name, value := range args {
		set.String(name, value, "")
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			ctx := newTestContext(t, map[string]string{"log-level": level})
			assert.NoError(t, setupLogger(ctx), "level %q should be accepted", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		ctx := newTestContext(t, map[string]string{"log-level": "verbose"})
		err := setupLogger(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestResolveKind(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		kind, err := resolveKind("webpage", "", nil)
		require.NoError(t, err)
		assert.Equal(t, core.KindWebpage, kind)
	})

	t.Run("invalid flag rejected", func(t *testing.T) {
		_, err := resolveKind("slideshow", "", nil)
		assert.Error(t, err)
	})

	t.Run("url detection", func(t *testing.T) {
		kind, err := resolveKind("", "https://youtu.be/dQw4w9WgXcQ", nil)
		require.NoError(t, err)
		assert.Equal(t, core.KindYouTube, kind)

		kind, err = resolveKind("", "https://example.com/article", nil)
		require.NoError(t, err)
		assert.Equal(t, core.KindWebpage, kind)
	})

	t.Run("file sniffing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain text notes"), 0644))

		kind, err := resolveKind("", "", []core.Upload{{Key: path}})
		require.NoError(t, err)
		assert.Equal(t, core.KindText, kind)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := resolveKind("", "", []core.Upload{{Key: "/nonexistent/file"}})
		assert.Error(t, err)
	})
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"text", "webpage"})
	require.NoError(t, err)
	assert.Equal(t, []core.ContentKind{core.KindText, core.KindWebpage}, kinds)

	_, err = parseKinds([]string{"text", "bogus"})
	assert.Error(t, err)
}
