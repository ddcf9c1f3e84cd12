package store

import (
	"context"
	"fmt"
)

// WriteRecord inserts a signing record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - the id is the
// constant's content-addressed fingerprint, so recording the same
// signing decision twice (or from two builds) is silently ignored.
// Other constraint violations (e.g., NOT NULL) still return errors.
func (s *Store) WriteRecord(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signed_pointers
		(id, build_id, symbol, key, integer_discriminator, address_discriminator, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.BuildID,
		rec.Symbol,
		rec.Key,
		rec.IntegerDiscriminator,
		rec.AddressDiscriminator,
		rec.Seq,
	)
	if err != nil {
		return fmt.Errorf("write signing record: %w", err)
	}

	return nil
}
