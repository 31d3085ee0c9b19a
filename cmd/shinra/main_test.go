package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/shinra/cmd/shinra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")
	m.Stdin = strings.NewReader("")
	return m
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("fails without a command", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{}, stdout, stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("fails on an unknown command", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"frobnicate"}, stdout, stderr)
		require.Error(t, err)
	})

	t.Run("runs shows an empty page index", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"runs"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No catalog runs recorded")
	})

	t.Run("runs opens the page index when a global flag comes first", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"-v", "runs"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No catalog runs recorded")
	})

	t.Run("catalog --index opens the page index when a global flag comes first", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		// The unarranged directory fails the command itself, but the page
		// index must have been wired before it ran.
		err := m.Run(context.Background(), []string{"-v", "catalog", "--index", t.TempDir()}, stdout, stderr)
		require.Error(t, err)
		assert.NotNil(t, m.DB, "page index should be opened for catalog --index")
		assert.NotNil(t, m.Store)
	})

	t.Run("arrange prompts for confirmation", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Stdin = strings.NewReader("n\n")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"arrange", t.TempDir()}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "[y/N]")
		assert.Contains(t, stdout.String(), "Aborted.")
	})

	t.Run("catalog fails on a directory that is not arranged", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"catalog", t.TempDir()}, stdout, stderr)
		require.Error(t, err)
	})
}
