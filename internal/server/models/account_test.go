package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_PublicNeverCarriesSecret(t *testing.T) {
	bd := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	a := &Account{
		ID:         "acc-1",
		Identity:   "09171234567",
		SecretHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:  "Ana",
		LastName:   "Cruz",
		Email:      "ana@example.com",
		Locality:   "Quezon City",
		Birthdate:  &bd,
		Sex:        "F",
	}

	p := a.Public()
	assert.Equal(t, "1990-05-17", p.Birthdate)
	assert.Equal(t, "F", p.Sex)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "$2a$")

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"id", "firstName", "lastName", "identity", "email", "locality"} {
		assert.Contains(t, m, k)
	}
	assert.NotContains(t, m, "secretHash")
	assert.NotContains(t, m, "SecretHash")
}

func TestAccount_JSONSkipsHash(t *testing.T) {
	b, err := json.Marshal(Account{ID: "acc-1", SecretHash: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash\"")
}
