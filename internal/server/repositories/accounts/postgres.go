package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	const op = "accounts.FindByIdentity"

	query :=
		`SELECT id::text, identity, secret_hash, first_name, middle_name, last_name,
		        email, locality, birthdate, sex, is_senior, created_at, updated_at
		 FROM accounts
		 WHERE identity = $1`

	a := &models.Account{}
	var birthdate sql.NullTime

	err := r.db.QueryRowContext(ctx, query, identity).Scan(
		&a.ID, &a.Identity, &a.SecretHash, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.Email, &a.Locality, &birthdate, &a.Sex, &a.IsSenior, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError(op, err, pgconn.Timeout)
	}

	if birthdate.Valid {
		bd := birthdate.Time
		a.Birthdate = &bd
	}
	return a, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, d *models.AccountDraft) (*models.Account, error) {
	const op = "accounts.Insert"

	query :=
		`INSERT INTO accounts (identity, secret_hash, first_name, middle_name, last_name,
		                       email, locality, birthdate, sex, is_senior)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id::text, created_at, updated_at`

	a := accountFromDraft(d)

	err := r.db.QueryRowContext(ctx, query,
		d.Identity, d.SecretHash, d.FirstName, d.MiddleName, d.LastName,
		d.Email, d.Locality, nullTime(d.Birthdate), d.Sex, d.IsSenior,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isPgIdentityViolation(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, storeError(op, err, pgconn.Timeout)
	}

	return a, nil
}

// isPgIdentityViolation reports a unique_violation on the identity
// constraint. Other unique violations are not duplicate identities.
func isPgIdentityViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	c := strings.ToLower(pgErr.ConstraintName)
	return c == "" || strings.Contains(c, "identity")
}

func accountFromDraft(d *models.AccountDraft) *models.Account {
	return &models.Account{
		Identity:   d.Identity,
		SecretHash: d.SecretHash,
		FirstName:  d.FirstName,
		MiddleName: d.MiddleName,
		LastName:   d.LastName,
		Email:      d.Email,
		Locality:   d.Locality,
		Birthdate:  d.Birthdate,
		Sex:        d.Sex,
		IsSenior:   d.IsSenior,
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
