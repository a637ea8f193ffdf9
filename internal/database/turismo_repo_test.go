package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/turismo/internal/models"
)

func TestFlatten(t *testing.T) {
	row := flatten(&models.Turismo{
		From:      &models.Location{Comunidad: "Madrid", Provincia: "Madrid"},
		TimeRange: &models.TimeRange{FechaInicio: "2024-01-01", FechaFin: "2024-01-31", Period: "2024M01"},
	})

	require.NotNil(t, row.FromComunidad)
	assert.Equal(t, "Madrid", *row.FromComunidad)
	assert.Nil(t, row.ToComunidad)
	assert.Nil(t, row.ToProvincia)
	require.NotNil(t, row.Period)
	assert.Equal(t, "2024M01", *row.Period)
}

func TestMirrorBatch(t *testing.T) {
	records := []models.Turismo{
		{ID: "a", From: &models.Location{Comunidad: "Madrid", Provincia: "Madrid"}, Total: 5},
		{ID: "", Total: 1},
		{ID: "c", To: &models.Location{Comunidad: "Galicia", Provincia: "Lugo"},
			TimeRange: &models.TimeRange{FechaInicio: "2024-02-01", FechaFin: "2024-02-29", Period: "2024M02"}, Total: 7},
	}

	batch, ids := mirrorBatch(records)
	assert.Equal(t, []string{"a", "c"}, ids)
	require.Equal(t, 2, batch.Len())

	first := batch.QueuedQueries[0]
	assert.Equal(t, upsertTurismoSQL, first.SQL)
	require.Len(t, first.Arguments, 10)
	assert.Equal(t, "a", first.Arguments[0])
	assert.Equal(t, 0, first.Arguments[1])
	assert.Equal(t, "Madrid", *first.Arguments[2].(*string))
	assert.Nil(t, first.Arguments[4].(*string))
	assert.Equal(t, 5, first.Arguments[9])

	second := batch.QueuedQueries[1]
	assert.Equal(t, 2, second.Arguments[1], "position keeps the file index")
	assert.Nil(t, second.Arguments[2].(*string))
	assert.Equal(t, "Lugo", *second.Arguments[5].(*string))
	assert.Equal(t, "2024M02", *second.Arguments[8].(*string))
}

func TestMirrorBatchEmpty(t *testing.T) {
	batch, ids := mirrorBatch(nil)
	assert.Equal(t, 0, batch.Len())
	assert.Empty(t, ids)
	assert.NotNil(t, ids, "ANY($1) needs an empty array, not NULL")
}

func TestPendingMigrations(t *testing.T) {
	all := []migration{{Version: 1, SQL: "a"}, {Version: 2, SQL: "b"}, {Version: 3, SQL: "c"}}

	assert.Equal(t, all, pending(all, nil))
	assert.Equal(t, []migration{{Version: 2, SQL: "b"}}, pending(all, map[int]bool{1: true, 3: true}))
	assert.Empty(t, pending(all, map[int]bool{1: true, 2: true, 3: true}))

	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS turismo")
}
