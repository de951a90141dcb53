package records

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// ConnProvider hands out stores bound to a dedicated database connection.
// Each acquisition checks a connection out of the pool and the release func
// returns it, so no caller holds storage resources between calls.
type ConnProvider struct {
	db *bun.DB
}

// NewConnProvider creates a provider over an open bun handle
func NewConnProvider(db *bun.DB) *ConnProvider {
	return &ConnProvider{
		db: db,
	}
}

// Acquire checks out a connection-scoped store
func (p *ConnProvider) Acquire(ctx context.Context) (UserStore, ReleaseFunc, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to acquire database connection: %w", err)
	}

	release := func() {
		_ = conn.Close()
	}

	return NewBunUserStore(conn), release, nil
}
