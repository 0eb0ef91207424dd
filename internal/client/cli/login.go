package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	identity, err := GetSimpleText(a.reader, "Mobile number", a.out)
	if err != nil {
		return err
	}

	pin, err := GetPassword("PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	s, err := a.api.Login(ctx, identity, string(pin))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	a.printSession(s, "Logged in")
	return nil
}

func (a *App) Whoami(ctx context.Context, token string) error {
	sub, err := a.api.Whoami(ctx, token)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	fmt.Fprintf(a.out, "account %s (%s), token valid until %s\n", sub.AccountID, sub.Identity, sub.ExpiresAt)
	return nil
}
