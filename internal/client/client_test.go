package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/turismo/internal/config"
	"github.com/foxxcyber/turismo/internal/handlers"
	"github.com/foxxcyber/turismo/internal/logger"
	"github.com/foxxcyber/turismo/internal/models"
	"github.com/foxxcyber/turismo/internal/store"
)

func rec(id, from, to, start string, total int) models.Turismo {
	return models.Turismo{
		ID:        id,
		From:      &models.Location{Comunidad: from, Provincia: from},
		To:        &models.Location{Comunidad: to, Provincia: to},
		TimeRange: &models.TimeRange{FechaInicio: start, FechaFin: start, Period: "P"},
		Total:     total,
	}
}

func seed() []models.Turismo {
	return []models.Turismo{
		rec("a", "Madrid", "Castilla y León", "2024-01-01", 1),
		rec("b", "Madrid", "Galicia", "2024-02-01", 2),
		rec("c", "Galicia", "Castilla y León", "2024-01-01", 3),
	}
}

func newServer(t *testing.T) (*Client, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "records.json"), filepath.Join(dir, "grouped.json"), logger.Discard())
	require.NoError(t, s.SaveAll(seed()))
	require.NoError(t, s.SaveGroupedIndex(store.BuildGroupedIndex(seed(), store.GroupByDestination)))

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.New(s, &config.Config{}, logger.Discard()).Register(app)

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client())), s
}

func TestClientCRUD(t *testing.T) {
	c, s := newServer(t)
	ctx := context.Background()

	all, err := c.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, seed(), all)

	page, err := c.List(ctx, &Page{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, seed()[2:], page)

	in := rec("", "Murcia", "Valencia", "2024-05-01", 99)
	id, err := c.Create(ctx, &in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	in.ID = id
	assert.Equal(t, in, *got)

	msg, err := c.Update(ctx, id, &models.UpdateTurismoRequest{From: in.From, TimeRange: in.TimeRange, Total: 7})
	require.NoError(t, err)
	assert.Equal(t, "Record updated successfully.", msg)

	got, err = c.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.To)
	assert.Equal(t, 7, got.Total)

	msg, err = c.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Record deleted successfully.", msg)
	assert.Len(t, s.LoadAll(), 3)

	_, err = c.Get(ctx, id)
	assert.True(t, IsNotFound(err))
}

func TestClientErrors(t *testing.T) {
	c, _ := newServer(t)
	ctx := context.Background()

	_, err := c.Create(ctx, &models.Turismo{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid payload: Missing required fields.", apiErr.Message)

	_, err = c.Delete(ctx, "missing")
	assert.True(t, IsNotFound(err))

	_, err = c.ByCommunity(ctx, "Extremadura")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
}

func TestClientCommunities(t *testing.T) {
	c, _ := newServer(t)
	ctx := context.Background()

	names, err := c.Communities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Castilla y León", "Galicia"}, names)

	records, err := c.ByCommunity(ctx, "Castilla y León")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "c", records[1].ID)
}

func TestFilterByStartDate(t *testing.T) {
	records := append(seed(), models.Turismo{ID: "no-range"})

	got := FilterByStartDate(records, "2024-01-01")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Empty(t, FilterByStartDate(records, "1999-01-01"))
	assert.Len(t, FilterByStartDate(records, ""), 4)
}

func TestDestinationCommunities(t *testing.T) {
	records := append(seed(), models.Turismo{ID: "no-to"})
	assert.Equal(t, []string{"Castilla y León", "Galicia"}, DestinationCommunities(records))
}

func TestCreateWithoutLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Record added successfully."))
	}))
	t.Cleanup(srv.Close)

	in := rec("", "Murcia", "Valencia", "2024-05-01", 1)
	id, err := New(srv.URL, WithHTTPClient(srv.Client())).Create(context.Background(), &in)
	assert.ErrorIs(t, err, ErrMissingLocation)
	assert.Empty(t, id)
}
