package indexed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// PostgresArchive reads verification history from the verification_history table.
type PostgresArchive struct {
	db *sql.DB
}

// NewPostgresArchive constructs an archive over an open pool.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	if db == nil {
		panic("indexed: database is required")
	}
	return &PostgresArchive{db: db}
}

const selectHistory = `
	SELECT identifier, verified_at, revoked_at, proof_hash, was_revoked, revoke_reason
	FROM verification_history
	WHERE passport_id = $1 AND platform = $2
	ORDER BY verified_at, seq`

const selectPlatformHistory = `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE was_revoked),
	       MIN(verified_at),
	       MAX(verified_at)
	FROM verification_history
	WHERE passport_id = $1 AND platform = $2`

func (a *PostgresArchive) GetVerificationHistory(ctx context.Context, passportID id.PassportID, platform string) ([]models.HistoryEntry, error) {
	rows, err := a.db.QueryContext(ctx, selectHistory, int64(passportID), platform)
	if err != nil {
		return nil, classifySQL(sources.OpGetVerificationHistory, err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	history := []models.HistoryEntry{}
	for rows.Next() {
		var (
			entry     models.HistoryEntry
			revokedAt sql.NullTime
			proof     []byte
		)
		if err := rows.Scan(&entry.Identifier, &entry.VerifiedAt, &revokedAt, &proof, &entry.WasRevoked, &entry.RevokeReason); err != nil {
			return nil, sources.NewSourceError(sources.ErrorBadData, sources.KindArchive, sources.OpGetVerificationHistory, "scan history row", err)
		}
		if len(proof) != len(entry.ProofHash) {
			return nil, sources.NewSourceError(sources.ErrorBadData, sources.KindArchive, sources.OpGetVerificationHistory,
				fmt.Sprintf("proof hash has %d bytes", len(proof)), nil)
		}
		copy(entry.ProofHash[:], proof)
		entry.VerifiedAt = entry.VerifiedAt.UTC()
		if revokedAt.Valid {
			t := revokedAt.Time.UTC()
			entry.RevokedAt = &t
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQL(sources.OpGetVerificationHistory, err)
	}
	return history, nil
}

func (a *PostgresArchive) GetPlatformHistory(ctx context.Context, passportID id.PassportID, platform string) (models.PlatformHistory, error) {
	var (
		summary     = models.PlatformHistory{Platform: platform}
		first, last sql.NullTime
	)
	err := a.db.QueryRowContext(ctx, selectPlatformHistory, int64(passportID), platform).
		Scan(&summary.TotalVerifications, &summary.TotalRevocations, &first, &last)
	if err != nil {
		return models.PlatformHistory{}, classifySQL(sources.OpGetPlatformHistory, err)
	}
	summary.FirstVerifiedAt = nullTime(first)
	summary.LastVerifiedAt = nullTime(last)
	return summary, nil
}

// Replace swaps the stored history of one platform for entries in a single transaction.
func (a *PostgresArchive) Replace(ctx context.Context, passportID id.PassportID, platform string, entries []models.HistoryEntry) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM verification_history WHERE passport_id = $1 AND platform = $2`,
		int64(passportID), platform); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for _, entry := range entries {
		var revokedAt sql.NullTime
		if entry.RevokedAt != nil {
			revokedAt = sql.NullTime{Time: *entry.RevokedAt, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO verification_history
				(passport_id, platform, identifier, verified_at, revoked_at, proof_hash, was_revoked, revoke_reason)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			int64(passportID), platform, entry.Identifier, entry.VerifiedAt, revokedAt,
			entry.ProofHash[:], entry.WasRevoked, entry.RevokeReason)
		if err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history replace: %w", err)
	}
	return nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func classifySQL(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return sources.Classify(sources.KindArchive, op, err)
	case errors.Is(err, sql.ErrNoRows):
		return sources.NotFound(sources.KindArchive, op, "no archived rows")
	default:
		return sources.NewSourceError(sources.ErrorSourceOutage, sources.KindArchive, op, "database failure", err)
	}
}
