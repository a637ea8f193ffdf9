package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/turismo/internal/client"
	"github.com/foxxcyber/turismo/internal/config"
	"github.com/foxxcyber/turismo/internal/handlers"
	"github.com/foxxcyber/turismo/internal/logger"
	"github.com/foxxcyber/turismo/internal/models"
	"github.com/foxxcyber/turismo/internal/store"
)

func seed() []models.Turismo {
	tr := func(start string) *models.TimeRange {
		return &models.TimeRange{FechaInicio: start, FechaFin: start, Period: "P"}
	}
	return []models.Turismo{
		{ID: "a", From: &models.Location{Comunidad: "Madrid"}, To: &models.Location{Comunidad: "Galicia"}, TimeRange: tr("2024-01-01"), Total: 1},
		{ID: "b", From: &models.Location{Comunidad: "Galicia"}, To: &models.Location{Comunidad: "Madrid"}, TimeRange: tr("2024-02-01"), Total: 2},
	}
}

type harness struct {
	opt      Options
	out, err *bytes.Buffer
	store    *store.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "records.json"), filepath.Join(dir, "grouped.json"), logger.Discard())
	require.NoError(t, s.SaveAll(seed()))
	require.NoError(t, s.SaveGroupedIndex(store.BuildGroupedIndex(seed(), store.GroupByDestination)))

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.New(s, &config.Config{}, logger.Discard()).Register(app)
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, store: s}
	h.opt = Options{Client: client.New(srv.URL, client.WithHTTPClient(srv.Client())), Out: h.out, Err: h.err}
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Run(context.Background(), args, h.opt)
}

func TestRunUsage(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run())
	assert.Equal(t, 2, h.run("nope"))
	assert.Contains(t, h.err.String(), "unknown subcommand")
	assert.Equal(t, 0, h.run("help"))
	assert.Contains(t, h.out.String(), "Subcommands:")
	assert.Equal(t, 2, h.run("get"))
	assert.Equal(t, 2, h.run("add", "-total", "3"))
}

func TestRunList(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.out.String(), "Tourism records (2)")
	assert.Contains(t, h.out.String(), "Galicia")

	require.Equal(t, 0, h.run("ls", "-date", "2024-02-01"))
	assert.Contains(t, h.out.String(), "Tourism records (1)")

	require.Equal(t, 0, h.run("ls", "-date", "1999-01-01"))
	assert.Contains(t, h.out.String(), "No matching rows.")

	require.Equal(t, 0, h.run("ls", "-page", "1", "-size", "1"))
	assert.Contains(t, h.out.String(), "Tourism records (1)")
}

func TestRunAddEditRemove(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("add", "-from-comunidad", "Murcia", "-start", "2024-03-01", "-total", "9"))
	assert.Contains(t, h.out.String(), "Record added: ")

	records := h.store.LoadAll()
	require.Len(t, records, 3)
	id := records[2].ID
	assert.Nil(t, records[2].To)
	assert.Equal(t, 9, records[2].Total)

	require.Equal(t, 0, h.run("edit", id, "-total", "11", "-to-comunidad", "Valencia"))
	assert.Contains(t, h.out.String(), "Record updated successfully.")
	got, err := h.store.GetTurismoByID(id)
	require.NoError(t, err)
	assert.Equal(t, 11, got.Total)
	assert.Equal(t, "Murcia", got.From.Comunidad)
	assert.Equal(t, "Valencia", got.To.Comunidad)

	require.Equal(t, 0, h.run("get", id))
	assert.Contains(t, h.out.String(), "Valencia")

	require.Equal(t, 0, h.run("rm", id))
	assert.Contains(t, h.out.String(), "Record deleted successfully.")

	assert.Equal(t, 1, h.run("rm", id))
	assert.Contains(t, h.err.String(), "Record not found.")
}

func TestRunCommunities(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("communities"))
	assert.Equal(t, "Galicia\nMadrid\n", h.out.String())

	require.Equal(t, 0, h.run("community", "Galicia"))
	assert.Contains(t, h.out.String(), "Galicia (1)")

	assert.Equal(t, 1, h.run("community", "Extremadura"))
	assert.Contains(t, h.out.String(), "No records found for community: Extremadura")
}

func TestBrowseModel(t *testing.T) {
	m := newBrowseModel(context.Background(), nil)

	next, _ := m.Update(recordsMsg(seed()))
	m = next.(browseModel)
	assert.Len(t, m.visible, 2)
	assert.Equal(t, "2 records", m.status)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = next.(browseModel)
	assert.True(t, m.filtering)

	for _, r := range "2024-02-01" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(browseModel)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	assert.False(t, m.filtering)
	assert.Equal(t, "2024-02-01", m.date)
	require.Len(t, m.visible, 1)
	assert.Equal(t, "b", m.visible[0].ID)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(browseModel)
	assert.Len(t, m.visible, 2)

	next, _ = m.Update(errMsg{errors.New("boom")})
	m = next.(browseModel)
	assert.Equal(t, "Error: boom", m.status)
	assert.Contains(t, m.View(), "Tourism Data Management")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
