package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists identity records.
type Repository interface {
	Create(ctx context.Context, rec Identity) error
	FindByID(ctx context.Context, id string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByNIN(ctx context.Context, nin string) (Identity, error)
	SetVerificationStatus(ctx context.Context, id string, status VerificationStatus) error
	// ApplyBlock sets is_blocked, blocked_until, and block_reason as one
	// atomic record mutation. Concurrent calls must never leave a record
	// blocked with no blocked_until.
	ApplyBlock(ctx context.Context, id string, until time.Time, reason string) (Identity, error)
	FindAll(ctx context.Context) ([]Identity, error)
}

const uniqueViolationCode = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new identity record.
func (r *PostgresRepository) Create(ctx context.Context, rec Identity) error {
	recID, err := uuid.Parse(rec.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO identities
        (id, full_name, email, phone, credential_hash, nin, role, verification_status,
         is_blocked, blocked_until, block_reason, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		recID, rec.FullName, rec.Email, rec.Phone, rec.CredentialHash, rec.NIN,
		string(rec.Role), string(rec.VerificationStatus), rec.IsBlocked,
		rec.BlockedUntil, rec.BlockReason, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrConflict
		}
		return err
	}
	return nil
}

const identityColumns = `id, full_name, email, phone, credential_hash, nin, role,
    verification_status, is_blocked, blocked_until, block_reason, created_at, updated_at`

// FindByID fetches an identity by its unique identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Identity, error) {
	recID, err := uuid.Parse(id)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, recID)
	return scanIdentity(row)
}

// FindByEmail fetches an identity by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = $1`, email)
	return scanIdentity(row)
}

// FindByNIN fetches an identity by national identity number.
func (r *PostgresRepository) FindByNIN(ctx context.Context, nin string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE nin = $1`, nin)
	return scanIdentity(row)
}

// SetVerificationStatus updates the verification state of an identity.
func (r *PostgresRepository) SetVerificationStatus(ctx context.Context, id string, status VerificationStatus) error {
	recID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE identities SET verification_status = $1, updated_at = now()
        WHERE id = $2`, string(status), recID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyBlock records a self-exclusion window in a single UPDATE so the three
// block fields are never observable half-written.
func (r *PostgresRepository) ApplyBlock(ctx context.Context, id string, until time.Time, reason string) (Identity, error) {
	recID, err := uuid.Parse(id)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE identities
        SET is_blocked = TRUE, blocked_until = $1, block_reason = $2, updated_at = now()
        WHERE id = $3
        RETURNING `+identityColumns, until.UTC(), reason, recID)
	return scanIdentity(row)
}

// FindAll returns every identity record. The credential hash is not selected.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]Identity, error) {
	rows, err := r.db.Query(ctx, `SELECT id, full_name, email, phone, nin, role,
        verification_status, is_blocked, blocked_until, block_reason, created_at, updated_at
        FROM identities ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []Identity
	for rows.Next() {
		var (
			recID        uuid.UUID
			rec          Identity
			role         string
			status       string
			blockedUntil *time.Time
			reason       *string
		)
		if err := rows.Scan(&recID, &rec.FullName, &rec.Email, &rec.Phone, &rec.NIN,
			&role, &status, &rec.IsBlocked, &blockedUntil, &reason,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.ID = recID.String()
		rec.Role = Role(role)
		rec.VerificationStatus = VerificationStatus(status)
		rec.BlockedUntil = blockedUntil
		if reason != nil {
			rec.BlockReason = *reason
		}
		all = append(all, rec)
	}
	return all, rows.Err()
}

func scanIdentity(row pgx.Row) (Identity, error) {
	var (
		recID        uuid.UUID
		rec          Identity
		role         string
		status       string
		blockedUntil *time.Time
		reason       *string
	)
	err := row.Scan(&recID, &rec.FullName, &rec.Email, &rec.Phone, &rec.CredentialHash,
		&rec.NIN, &role, &status, &rec.IsBlocked, &blockedUntil, &reason,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	rec.ID = recID.String()
	rec.Role = Role(role)
	rec.VerificationStatus = VerificationStatus(status)
	rec.BlockedUntil = blockedUntil
	if reason != nil {
		rec.BlockReason = *reason
	}
	return rec, nil
}
