package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/models"
	"recipe-studio-backend/pkg/messagequeue"
)

const brownies = `[{"title":"Brownie","tags":["[casero]"],"macros":{"kcal":180,"sugar":0.5,"netCarbs":6,"protein":9,"fats":12}}]`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	logger = zaptest.NewLogger(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestEnrich(t *testing.T) {
	out, err := execute(t, brownies, "enrich")
	require.NoError(t, err)

	var recipes []models.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{"CASERO", core.TagSugarFree, core.TagDiabetic, core.TagKeto, core.TagLowCarb, core.TagLowCalorie}, recipes[0].Tags)
}

func TestEnrichReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(brownies), 0o600))

	out, err := execute(t, "", "enrich", path)
	require.NoError(t, err)
	assert.Contains(t, out, core.TagKeto)
}

func TestEnrichRejectsObject(t *testing.T) {
	_, err := execute(t, `{"title":"x"}`, "enrich")
	assert.Error(t, err)
}

func TestCategorize(t *testing.T) {
	out, err := execute(t, `[{"title":"Pollo","tags":["ALTO EN PROTEÍNA"]}]`, "categorize", "-")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryFitness+"\n", out)

	out, err = execute(t, `[]`, "categorize")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryMixed+"\n", out)
}

func TestPrompt(t *testing.T) {
	out, err := execute(t, "", "prompt", "postres", "sin", "horno")
	require.NoError(t, err)
	assert.Contains(t, out, `"postres sin horno"`)

	_, err = execute(t, "", "prompt")
	assert.ErrorIs(t, err, core.ErrTopicRequired)
}

func TestPromptReplication(t *testing.T) {
	book := models.RecipeBook{ID: "book-1", Title: "POSTRES", Recipes: []models.Recipe{{ID: "r1", Title: "Flan"}}}
	data, err := json.Marshal(book)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := execute(t, "", "prompt", "--book", path)
	require.NoError(t, err)
	assert.Contains(t, out, "DNA_REPLICATION_PROMPT")
	assert.Contains(t, out, "Flan")
}

func TestImport(t *testing.T) {
	out, err := execute(t, "```json\n"+brownies+"\n```", "import", "--topic", "postres fit")
	require.NoError(t, err)
	assert.Contains(t, out, "POSTRES FIT ("+core.CategorySugarFree+") - 1 recipes")
	assert.Contains(t, out, "Brownie [CASERO, SIN AZÚCAR")
}

func TestImportJSON(t *testing.T) {
	out, err := execute(t, brownies, "import", "--json")
	require.NoError(t, err)

	var book models.RecipeBook
	require.NoError(t, json.Unmarshal([]byte(out), &book))
	assert.Equal(t, core.DefaultBookTitle, book.Title)
	assert.True(t, strings.HasPrefix(book.ID, "book-"))
	require.Len(t, book.Recipes, 1)
	assert.True(t, strings.HasPrefix(book.Recipes[0].ID, "rcp-"))
}

func TestImportRejectsInvalid(t *testing.T) {
	_, err := execute(t, `{"title":"x"}`, "import")
	assert.ErrorIs(t, err, core.ErrInvalidImport)

	_, err = execute(t, `[]`, "import")
	assert.ErrorIs(t, err, core.ErrInvalidImport)
}

type replayQueue struct {
	bodies [][]byte
	queue  string
	closed bool
}

func (q *replayQueue) Publish(context.Context, string, []byte) error { return nil }

func (q *replayQueue) Consume(_ context.Context, queue string, handler func(body []byte)) error {
	q.queue = queue
	for _, b := range q.bodies {
		handler(b)
	}
	return nil
}

func (q *replayQueue) Close() error {
	q.closed = true
	return nil
}

func TestEvents(t *testing.T) {
	q := &replayQueue{bodies: [][]byte{
		[]byte(`{"type":"library.saved","email":"chef@example.com","books":3,"at":"2026-01-02T03:04:05Z"}`),
		[]byte(`not json`),
		[]byte(`{"type":"library.save_failed","books":1,"at":"2026-01-02T03:04:06Z","error":"boom"}`),
	}}
	orig := dialQueue
	dialQueue = func(string) (messagequeue.MessageQueue, error) { return q, nil }
	t.Cleanup(func() { dialQueue = orig })

	out, err := execute(t, "", "events", "--url", "amqp://localhost", "--queue", "sync")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-01-02T03:04:05Z library.saved       books=3 email=chef@example.com", lines[0])
	assert.Equal(t, "2026-01-02T03:04:06Z library.save_failed books=1 error=boom", lines[1])
	assert.Equal(t, "sync", q.queue)
	assert.True(t, q.closed)
}

func TestEventsRequiresURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	_, err := execute(t, "", "events")
	assert.Error(t, err)
}
