// Package cli holds the kong subcommands. Each command's Run receives a
// *Context with the global flags resolved.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/keyring"
	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
	"github.com/MIkhsanPasaribu/studyhub/internal/store/postgres"
)

// SourceKeyring selects the Postgres DSN stored in the OS keyring.
const SourceKeyring = "keyring"

type Context struct {
	DBPath string
	Owner  string
	Out    io.Writer
	Now    func() time.Time
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// OpenStore opens the local SQLite store, falling back to the default path.
func (c *Context) OpenStore() (*store.Store, error) {
	path := c.DBPath
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	return store.New(path)
}

// OpenSource returns the record source named by source: empty for the local
// store, "keyring" for the DSN saved in the OS keyring, or a Postgres DSN.
// The returned closer releases it.
func (c *Context) OpenSource(ctx context.Context, source string) (store.Source, func() error, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		s, err := c.OpenStore()
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}

	if source == SourceKeyring {
		dsn, err := keyring.GetConnectionString()
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil, errors.New("no connection string in keyring; run 'studyhub keyring set' first")
		}
		if err != nil {
			return nil, nil, err
		}
		source = dsn
	}

	pg, err := postgres.Open(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using remote record source", "owner", c.Owner)
	return pg, pg.Close, nil
}
