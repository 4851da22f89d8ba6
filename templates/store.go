package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hazyhaar/domap/dbopen"
)

// Store persists templates to SQLite so learned hints survive session
// restarts.
type Store struct {
	DB *sql.DB
}

// OpenStore opens (or creates) the template database at path.
func OpenStore(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// NewStore wraps an already opened database. The caller is responsible
// for having applied Schema.
func NewStore(db *sql.DB) *Store { return &Store{DB: db} }

func (s *Store) Close() error { return s.DB.Close() }

// Get loads the template for k. Returns sql.ErrNoRows when absent.
func (s *Store) Get(ctx context.Context, k Key) (Data, time.Time, error) {
	var (
		d            Data
		fieldsJSON   string
		hasMain      int
		hasSD        int
		updatedAtSec int64
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT schema_name, has_main, has_structured_data, metadata_source,
		       fields_found, card_strategy, page_param,
		       removal_ratio, selection_ratio, updated_at
		FROM templates WHERE domain = ? AND page_type = ?`,
		k.Domain, string(k.PageType),
	).Scan(&d.Schema, &hasMain, &hasSD, &d.MetadataSource,
		&fieldsJSON, &d.CardStrategy, &d.PageParam,
		&d.RemovalRatio, &d.SelectionRatio, &updatedAtSec)
	if err != nil {
		return Data{}, time.Time{}, err
	}
	d.HasMain = hasMain != 0
	d.HasStructuredData = hasSD != 0
	if err := json.Unmarshal([]byte(fieldsJSON), &d.FieldsFound); err != nil {
		return Data{}, time.Time{}, fmt.Errorf("templates: decode fields: %w", err)
	}
	return d, time.Unix(updatedAtSec, 0), nil
}

// Put upserts the template for k.
func (s *Store) Put(ctx context.Context, k Key, d Data, updatedAt time.Time) error {
	fields := d.FieldsFound
	if fields == nil {
		fields = []string{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("templates: encode fields: %w", err)
	}
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO templates (
				domain, page_type, schema_name, has_main, has_structured_data,
				metadata_source, fields_found, card_strategy, page_param,
				removal_ratio, selection_ratio, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (domain, page_type) DO UPDATE SET
				schema_name = excluded.schema_name,
				has_main = excluded.has_main,
				has_structured_data = excluded.has_structured_data,
				metadata_source = excluded.metadata_source,
				fields_found = excluded.fields_found,
				card_strategy = excluded.card_strategy,
				page_param = excluded.page_param,
				removal_ratio = excluded.removal_ratio,
				selection_ratio = excluded.selection_ratio,
				updated_at = excluded.updated_at`,
			k.Domain, string(k.PageType), d.Schema, boolInt(d.HasMain), boolInt(d.HasStructuredData),
			d.MetadataSource, string(fieldsJSON), d.CardStrategy, d.PageParam,
			d.RemovalRatio, d.SelectionRatio, updatedAt.Unix())
		return err
	})
}

// Delete removes the template for k. Deleting an absent row is not an
// error.
func (s *Store) Delete(ctx context.Context, k Key) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM templates WHERE domain = ? AND page_type = ?`,
		k.Domain, string(k.PageType))
	return err
}

// PurgeOlderThan removes templates not updated since cutoff, returning
// how many rows were deleted.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM templates WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
