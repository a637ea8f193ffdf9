package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/turismo/internal/models"
)

// MirrorResult summarizes a MirrorTurismo run
type MirrorResult struct {
	Upserted int
	Deleted  int
}

const upsertTurismoSQL = `
INSERT INTO turismo (id, position, from_comunidad, from_provincia, to_comunidad, to_provincia,
	fecha_inicio, fecha_fin, period, total, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (id) DO UPDATE SET
	position = EXCLUDED.position,
	from_comunidad = EXCLUDED.from_comunidad,
	from_provincia = EXCLUDED.from_provincia,
	to_comunidad = EXCLUDED.to_comunidad,
	to_provincia = EXCLUDED.to_provincia,
	fecha_inicio = EXCLUDED.fecha_inicio,
	fecha_fin = EXCLUDED.fecha_fin,
	period = EXCLUDED.period,
	total = EXCLUDED.total,
	synced_at = NOW()`

const deleteStaleTurismoSQL = `DELETE FROM turismo WHERE NOT (id = ANY($1))`

// turismoRow is the flattened column form of a record
type turismoRow struct {
	FromComunidad, FromProvincia *string
	ToComunidad, ToProvincia     *string
	FechaInicio, FechaFin        *string
	Period                       *string
}

func flatten(r *models.Turismo) turismoRow {
	var row turismoRow
	if r.From != nil {
		row.FromComunidad, row.FromProvincia = &r.From.Comunidad, &r.From.Provincia
	}
	if r.To != nil {
		row.ToComunidad, row.ToProvincia = &r.To.Comunidad, &r.To.Provincia
	}
	if r.TimeRange != nil {
		row.FechaInicio, row.FechaFin, row.Period = &r.TimeRange.FechaInicio, &r.TimeRange.FechaFin, &r.TimeRange.Period
	}
	return row
}

// mirrorBatch queues one upsert per record that has an id and returns the
// kept ids. Position is the record's index in the file, so skipped records
// leave gaps.
func mirrorBatch(records []models.Turismo) (*pgx.Batch, []string) {
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(records))
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			continue
		}
		ids = append(ids, r.ID)
		row := flatten(r)
		batch.Queue(upsertTurismoSQL, r.ID, i,
			row.FromComunidad, row.FromProvincia, row.ToComunidad, row.ToProvincia,
			row.FechaInicio, row.FechaFin, row.Period, r.Total)
	}
	return batch, ids
}

// MirrorTurismo makes the turismo table match records: rows are upserted by
// id and rows whose id is absent are deleted, in one transaction.
func (db *DB) MirrorTurismo(ctx context.Context, records []models.Turismo) (*MirrorResult, error) {
	batch, ids := mirrorBatch(records)
	res := &MirrorResult{Upserted: len(ids)}

	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("failed to upsert records: %w", err)
			}
		}
		tag, err := tx.Exec(ctx, deleteStaleTurismoSQL, ids)
		if err != nil {
			return fmt.Errorf("failed to delete stale records: %w", err)
		}
		res.Deleted = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CountTurismo returns the number of mirrored records
func (db *DB) CountTurismo(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM turismo`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
