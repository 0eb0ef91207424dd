// Package accounts is the persistence boundary for accounts. It performs no
// business validation: it finds, inserts, and classifies store failures.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository abstracts the accounts table.
//
// FindByIdentity returns common.ErrorNotFound when no row matches. Insert
// returns common.ErrDuplicateIdentity when the unique constraint on identity
// rejects the row; this is the authoritative duplicate check. Every other
// failure is a *common.StoreError.
type Repository interface {
	FindByIdentity(ctx context.Context, identity string) (*models.Account, error)
	Insert(ctx context.Context, draft *models.AccountDraft) (*models.Account, error)
}
