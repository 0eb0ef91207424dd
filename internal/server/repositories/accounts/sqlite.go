package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository stores accounts in SQLite. SQLite has no UUID generator,
// so the adapter assigns ids and timestamps itself.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) FindByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	const op = "accounts.FindByIdentity"

	query :=
		`SELECT id, identity, secret_hash, first_name, middle_name, last_name,
		        email, locality, birthdate, sex, is_senior, created_at, updated_at
		 FROM accounts
		 WHERE identity = ?`

	a := &models.Account{}
	var birthdate sql.NullString
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, identity).Scan(
		&a.ID, &a.Identity, &a.SecretHash, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.Email, &a.Locality, &birthdate, &a.Sex, &a.IsSenior, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError(op, err, isSQLiteBusy)
	}

	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, storeError(op, fmt.Errorf("malformed created_at: %w", err))
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, storeError(op, fmt.Errorf("malformed updated_at: %w", err))
	}
	if birthdate.Valid && birthdate.String != "" {
		bd, err := time.Parse(models.BirthdateLayout, birthdate.String)
		if err != nil {
			return nil, storeError(op, fmt.Errorf("malformed birthdate: %w", err))
		}
		a.Birthdate = &bd
	}
	return a, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, d *models.AccountDraft) (*models.Account, error) {
	const op = "accounts.Insert"

	query :=
		`INSERT INTO accounts (id, identity, secret_hash, first_name, middle_name, last_name,
		                       email, locality, birthdate, sex, is_senior, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	a := accountFromDraft(d)
	a.ID = uuid.NewString()
	a.CreatedAt = r.now().UTC()
	a.UpdatedAt = a.CreatedAt

	var birthdate sql.NullString
	if d.Birthdate != nil {
		birthdate = sql.NullString{String: d.Birthdate.Format(models.BirthdateLayout), Valid: true}
	}
	ts := a.CreatedAt.Format(time.RFC3339Nano)

	_, err := r.db.ExecContext(ctx, query,
		a.ID, d.Identity, d.SecretHash, d.FirstName, d.MiddleName, d.LastName,
		d.Email, d.Locality, birthdate, d.Sex, d.IsSenior, ts, ts,
	)
	if err != nil {
		if isSQLiteIdentityViolation(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, storeError(op, err, isSQLiteBusy)
	}

	return a, nil
}

func isSQLiteIdentityViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	return strings.Contains(se.Error(), "accounts.identity")
}

func isSQLiteBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}
