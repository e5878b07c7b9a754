package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eventspark/auth-service/internal/common"
	"github.com/eventspark/auth-service/internal/dbx"
	"github.com/eventspark/auth-service/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
//
// Writes are single statements: there is no optimistic concurrency on
// the credential row, so concurrent updates to the same credential are
// last-writer-wins.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	query := `
		INSERT INTO credentials (user_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		credential.UserID, credential.Email, credential.PasswordHash).
		Scan(&credential.ID, &credential.CreatedAt, &credential.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return credential, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `
		SELECT id, user_id, email, password_hash, refresh_token, refresh_token_expiry, created_at, updated_at
		FROM credentials
		WHERE email = $1
	`
	return scanCredential(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByRefreshToken(ctx context.Context, token string) (*models.Credential, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}
	query := `
		SELECT id, user_id, email, password_hash, refresh_token, refresh_token_expiry, created_at, updated_at
		FROM credentials
		WHERE refresh_token = $1
	`
	return scanCredential(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, credential *models.Credential) (bool, error) {
	query := `
		UPDATE credentials
		SET user_id = $2, email = $3, password_hash = $4,
		    refresh_token = $5, refresh_token_expiry = $6, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id,
		credential.UserID, credential.Email, credential.PasswordHash,
		nullString(credential.RefreshToken), nullTime(credential.RefreshTokenExpiry))
	if err != nil {
		if isUniqueViolation(err) {
			return false, common.ErrorDuplicate
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func scanCredential(row *sql.Row) (*models.Credential, error) {
	c := &models.Credential{}
	var token sql.NullString
	var expiry sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.Email, &c.PasswordHash,
		&token, &expiry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	c.RefreshToken = token.String
	if expiry.Valid {
		c.RefreshTokenExpiry = expiry.Time
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
