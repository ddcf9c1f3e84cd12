package store

import (
	"context"
	"fmt"
)

// ListRecords returns all signing records, deterministically ordered:
// ORDER BY seq ASC, id ASC COLLATE BINARY. Inspection output must be
// stable across runs, so never rely on insertion order.
//
// Returns an empty slice (not nil) if no records exist.
func (s *Store) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, build_id, symbol, key, integer_discriminator, address_discriminator, seq
		FROM signed_pointers
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query signing records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.BuildID,
			&rec.Symbol,
			&rec.Key,
			&rec.IntegerDiscriminator,
			&rec.AddressDiscriminator,
			&rec.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan signing record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signing records: %w", err)
	}

	return records, nil
}

// ListRecordsForSymbol returns the signing records for one symbol,
// deterministically ordered.
func (s *Store) ListRecordsForSymbol(ctx context.Context, symbol string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, build_id, symbol, key, integer_discriminator, address_discriminator, seq
		FROM signed_pointers
		WHERE symbol = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query signing records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.BuildID,
			&rec.Symbol,
			&rec.Key,
			&rec.IntegerDiscriminator,
			&rec.AddressDiscriminator,
			&rec.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan signing record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signing records: %w", err)
	}

	return records, nil
}
