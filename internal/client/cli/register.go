package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

var errPINMismatch = errors.New("PINs do not match")

func (a *App) Register(ctx context.Context) error {
	var r client.RegisterRequest

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &r.FirstName},
		{"Middle name (optional)", &r.MiddleName},
		{"Last name", &r.LastName},
		{"Mobile number (09XXXXXXXXX)", &r.Identity},
		{"Email (optional)", &r.Email},
		{"Barangay / locality (optional)", &r.Locality},
		{"Birthdate YYYY-MM-DD (optional)", &r.Birthdate},
		{"Sex (optional)", &r.Sex},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	senior, err := GetSimpleText(a.reader, "Senior citizen or PWD? (y/N)", a.out)
	if err != nil {
		return err
	}
	r.IsSenior = strings.EqualFold(senior, "y") || strings.EqualFold(senior, "yes")

	pin, err := GetPassword("PIN (4-6 digits)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	confirm, err := GetPassword("Repeat PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(pin) != string(confirm) {
		return errPINMismatch
	}
	r.Secret = string(pin)

	s, err := a.api.Register(ctx, r)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	a.printSession(s, "Registered")
	return nil
}
