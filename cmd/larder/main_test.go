package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/editor"
	"github.com/hammamikhairi/larder/internal/storage"
)

// run executes the CLI against the database at db and returns stdout.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	defer a.teardown()
	cmd := a.rootCmd()
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--driver", "sqlite",
		"--db", db,
		"--log-file", "stderr",
		"--quiet",
	}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "larder.db")
}

func TestSeedAndList(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 3 sample recipes")

	out, err = run(t, db, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 0 sample recipes")

	out, err = run(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Chicken Alfredo")
	assert.Contains(t, out, "Tiramisu")

	out, err = run(t, db, "list", "--search", "dessert")
	require.NoError(t, err)
	assert.Contains(t, out, "Tiramisu")
	assert.NotContains(t, out, "Chicken Alfredo")
}

func TestShow(t *testing.T) {
	db := tempDB(t)
	_, err := run(t, db, "seed")
	require.NoError(t, err)

	out, err := run(t, db, "show", "tiramisu")
	require.NoError(t, err)
	assert.Contains(t, out, "Tiramisu\n")
	assert.Contains(t, out, "Ingredients:")

	_, err = run(t, db, "show", "Pizza")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTags(t *testing.T) {
	db := tempDB(t)
	_, err := run(t, db, "seed")
	require.NoError(t, err)

	out, err := run(t, db, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "vegan\n")
	assert.Contains(t, out, "no-bake\n")
}

func TestExportImport(t *testing.T) {
	src, dst := tempDB(t), tempDB(t)
	_, err := run(t, src, "seed")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "book.yaml")
	out, err := run(t, src, "export", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 recipes")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Tiramisu")

	out, err = run(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 recipes")

	out, err = run(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 recipes, skipped 3")

	out, err = run(t, dst, "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Vegetable Stir Fry"`)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, tempDB(t), "export", "--format", "xml")
	assert.Error(t, err)
}

func TestPantry(t *testing.T) {
	db := tempDB(t)
	expires := time.Now().AddDate(0, 0, 3).Format(domain.DateLayout)

	out, err := run(t, db, "pantry", "add", "Salt", "--expires", expires, "--category", "spices")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Salt")

	_, err = run(t, db, "pantry", "add", "Salt", "--expires", expires)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	_, err = run(t, db, "pantry", "add", "Milk", "--expires", "tomorrow")
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err = run(t, db, "pantry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Salt")
	assert.Contains(t, out, expires)

	out, err = run(t, db, "pantry", "remove", "Salt", "--expires", expires)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Salt")

	_, err = run(t, db, "pantry", "remove", "Salt", "--expires", expires)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = run(t, db, "pantry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The pantry is empty.")
}

func TestReadinessInList(t *testing.T) {
	db := tempDB(t)
	_, err := run(t, db, "seed")
	require.NoError(t, err)

	out, err := run(t, db, "list", "--search", "dessert")
	require.NoError(t, err)
	assert.Contains(t, out, "0%")
}

func TestMemoryStore(t *testing.T) {
	out, err := run(t, tempDB(t), "--memory", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 3 sample recipes")
}

type recordingNotifier struct {
	urgent []string
}

func (r *recordingNotifier) Notify(context.Context, string) error { return nil }

func (r *recordingNotifier) NotifyUrgent(_ context.Context, msg string) error {
	r.urgent = append(r.urgent, msg)
	return nil
}

func TestEditorStartsWithoutStorage(t *testing.T) {
	unreachable := filepath.Join(t.TempDir(), "missing", "sub", "larder.db")

	a := newApp(io.Discard)
	defer a.teardown()
	root := a.rootCmd()
	root.SetErr(io.Discard)
	require.NoError(t, root.ParseFlags([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--driver", "sqlite",
		"--db", unreachable,
		"--log-file", "stderr",
		"--quiet",
	}))

	require.NoError(t, a.setup(root))
	require.Error(t, a.degraded)
	_, isDown := a.recipes.(*storage.Unavailable)
	assert.True(t, isDown, "recipes should be served by the unavailable gateway")

	notifier := &recordingNotifier{}
	session := a.newSession(t.Context(), notifier)

	assert.Equal(t, editor.TitleSuspended, session.State())
	assert.Len(t, session.Recipes(), 1)
	assert.Equal(t, "", session.Current().Title)
	require.NotEmpty(t, notifier.urgent)
	assert.Contains(t, notifier.urgent[0], "Could not load recipes")
}

func TestCommandsFailWithoutStorage(t *testing.T) {
	unreachable := filepath.Join(t.TempDir(), "missing", "sub", "larder.db")

	_, err := run(t, unreachable, "list")
	assert.Error(t, err)
}
