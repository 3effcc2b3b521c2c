// Package backfill reports on and encrypts sensitive columns still holding plaintext
// from before field encryption was enabled. Legacy CryptoJS ciphertext and the
// {"_encrypted": "..."} wrapper are rewritten into the canonical format.
package backfill

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
	"github.com/MrJamesThe3rd/timepulse/internal/metrics"
)

// FieldStatus counts the stored values of one encrypted column.
type FieldStatus struct {
	Table     string
	Column    string
	Encrypted int
	// Legacy counts CryptoJS ciphertext and wrapped values that Run rewrites.
	Legacy    int
	Plaintext int
	Empty     int
}

// TableResult summarizes a backfill pass over one table.
type TableResult struct {
	Table    string
	Rows     int // Rows rewritten (or that would be, on a dry run)
	Fields   int // Values rewritten
	Resealed int // Of Fields, legacy values moved to the canonical format
}

type Backfiller struct {
	db       *sql.DB
	codec    *fieldcrypt.Codec
	entities []fieldcrypt.Entity
}

// New returns a Backfiller over entities, or over every encrypted entity when none are given.
func New(db *sql.DB, codec *fieldcrypt.Codec, entities ...fieldcrypt.Entity) *Backfiller {
	if len(entities) == 0 {
		entities = fieldcrypt.Entities()
	}

	return &Backfiller{db: db, codec: codec, entities: entities}
}

// row is one table row with the entity's encrypted columns, in field order.
type row struct {
	id     uuid.UUID
	values []sql.NullString
}

func (b *Backfiller) scan(ctx context.Context, e fieldcrypt.Entity, fn func(row) error) error {
	query := fmt.Sprintf(`SELECT id, %s FROM %s ORDER BY id`, strings.Join(e.Fields.Columns(), ", "), e.Table)

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("reading %s: %w", e.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		r := row{values: make([]sql.NullString, len(e.Fields))}

		dest := make([]any, 0, len(e.Fields)+1)
		dest = append(dest, &r.id)

		for i := range r.values {
			dest = append(dest, &r.values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scanning %s: %w", e.Table, err)
		}

		if err := fn(r); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", e.Table, err)
	}

	return nil
}

// Status counts the stored values of every encrypted column by format.
func (b *Backfiller) Status(ctx context.Context) ([]FieldStatus, error) {
	var report []FieldStatus

	for _, e := range b.entities {
		stats := make([]FieldStatus, len(e.Fields))
		for i, f := range e.Fields {
			stats[i] = FieldStatus{Table: e.Table, Column: f.Column}
		}

		err := b.scan(ctx, e, func(r row) error {
			for i, v := range r.values {
				if !v.Valid {
					stats[i].Empty++
					continue
				}

				switch fieldcrypt.FormatOf(v.String) {
				case fieldcrypt.FormatEmpty:
					stats[i].Empty++
				case fieldcrypt.FormatGCM:
					stats[i].Encrypted++
				case fieldcrypt.FormatLegacy, fieldcrypt.FormatWrapped:
					stats[i].Legacy++
				default:
					stats[i].Plaintext++
				}
			}

			return nil
		})
		if err != nil {
			return nil, err
		}

		report = append(report, stats...)
	}

	return report, nil
}

type update struct {
	id       uuid.UUID
	columns  []string
	values   []any
	resealed int
}

// Run encrypts every plaintext value in place and reseals legacy ones, one UPDATE per
// row. With dryRun set it only counts what would change.
func (b *Backfiller) Run(ctx context.Context, dryRun bool) ([]TableResult, error) {
	var results []TableResult

	for _, e := range b.entities {
		var pending []update

		err := b.scan(ctx, e, func(r row) error {
			u, err := b.seal(e, r)
			if err != nil {
				return err
			}

			if len(u.columns) > 0 {
				pending = append(pending, u)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}

		res := TableResult{Table: e.Table, Rows: len(pending)}
		for _, u := range pending {
			res.Fields += len(u.columns)
			res.Resealed += u.resealed
		}

		if !dryRun {
			for _, u := range pending {
				if err := b.apply(ctx, e, u); err != nil {
					return nil, err
				}
			}

			metrics.BackfilledFields.WithLabelValues(e.Table).Add(float64(res.Fields))
		}

		slog.Info("backfill table done", "table", e.Table, "rows", res.Rows, "fields", res.Fields, "resealed", res.Resealed, "dry_run", dryRun)

		results = append(results, res)
	}

	return results, nil
}

// seal encrypts the plaintext values of r through the record API and reseals legacy
// ones. Values already in the canonical format are left alone.
func (b *Backfiller) seal(e fieldcrypt.Entity, r row) (update, error) {
	u := update{id: r.id}

	rec := fieldcrypt.Record{}
	changed := make(map[string]string)

	for i, v := range r.values {
		if !v.Valid {
			continue
		}

		f := e.Fields[i]

		switch fieldcrypt.FormatOf(v.String) {
		case fieldcrypt.FormatPlaintext:
			rec[f.Name] = v.String

		case fieldcrypt.FormatLegacy, fieldcrypt.FormatWrapped:
			out, err := b.codec.Reseal(v.String)
			if err != nil {
				return u, fmt.Errorf("resealing %s %s %s: %w", e.Table, r.id, f.Column, err)
			}

			if out != v.String {
				changed[f.Column] = out
				u.resealed++
			}
		}
	}

	if len(rec) > 0 {
		sealed, err := b.codec.EncryptRecord(rec, e.Fields)
		if err != nil {
			return u, fmt.Errorf("encrypting %s %s: %w", e.Table, r.id, err)
		}

		for _, f := range e.Fields {
			v, ok := sealed[f.Name].(string)
			if !ok || v == rec[f.Name] || !fieldcrypt.IsEncrypted(v) {
				continue
			}

			changed[f.Column] = v
		}
	}

	for _, f := range e.Fields {
		if v, ok := changed[f.Column]; ok {
			u.columns = append(u.columns, f.Column)
			u.values = append(u.values, v)
		}
	}

	return u, nil
}

func (b *Backfiller) apply(ctx context.Context, e fieldcrypt.Entity, u update) error {
	sets := make([]string, len(u.columns))
	for i, col := range u.columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, e.Table, strings.Join(sets, ", "), len(u.columns)+1)

	if _, err := b.db.ExecContext(ctx, query, append(u.values, u.id)...); err != nil {
		return fmt.Errorf("updating %s %s: %w", e.Table, u.id, err)
	}

	return nil
}
