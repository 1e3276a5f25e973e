package cli

import (
	"errors"
	"fmt"

	"github.com/MIkhsanPasaribu/studyhub/internal/keyring"
	"github.com/MIkhsanPasaribu/studyhub/internal/store/postgres"
)

// KeyringSetCmd stores the remote database connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string without a password."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("%w; keep the password in PGPASSWORD or ~/.pgpass", err)
		}
		return err
	}
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), "✓ Connection string stored in OS keyring")
	fmt.Fprintln(ctx.out(), "  Use --source keyring to read remote records")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring; use 'studyhub keyring set' to store one")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), connStr)
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	fmt.Fprintln(ctx.out(), "✓ Connection string deleted from OS keyring")
	return nil
}
