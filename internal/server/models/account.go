// Package models holds the persisted and outward-facing shapes of an account.
package models

import "time"

// BirthdateLayout is the wire and storage format of Account.Birthdate.
const BirthdateLayout = "2006-01-02"

// Account is the persisted identity. ID and timestamps are assigned by the
// store; SecretHash never leaves the server.
type Account struct {
	ID         string     `db:"id"`
	Identity   string     `db:"identity"`
	SecretHash string     `db:"secret_hash" json:"-"`
	FirstName  string     `db:"first_name"`
	MiddleName string     `db:"middle_name"`
	LastName   string     `db:"last_name"`
	Email      string     `db:"email"`
	Locality   string     `db:"locality"`
	Birthdate  *time.Time `db:"birthdate"`
	Sex        string     `db:"sex"`
	IsSenior   bool       `db:"is_senior"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// AccountDraft is what the workflow hands to the store for insertion.
type AccountDraft struct {
	Identity   string
	SecretHash string
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Locality   string
	Birthdate  *time.Time
	Sex        string
	IsSenior   bool
}

// PublicAccount is the projection returned to clients.
type PublicAccount struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Identity   string `json:"identity"`
	Email      string `json:"email"`
	Locality   string `json:"locality"`
	Birthdate  string `json:"birthdate,omitempty"`
	Sex        string `json:"sex,omitempty"`
	IsSenior   bool   `json:"isSenior"`
}

// Public returns the client-safe view of a.
func (a *Account) Public() PublicAccount {
	p := PublicAccount{
		ID:         a.ID,
		FirstName:  a.FirstName,
		MiddleName: a.MiddleName,
		LastName:   a.LastName,
		Identity:   a.Identity,
		Email:      a.Email,
		Locality:   a.Locality,
		Sex:        a.Sex,
		IsSenior:   a.IsSenior,
	}
	if a.Birthdate != nil {
		p.Birthdate = a.Birthdate.Format(BirthdateLayout)
	}
	return p
}
