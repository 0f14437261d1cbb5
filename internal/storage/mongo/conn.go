package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"intern_insider/internal/domain"
)

const DefaultTimeout = 10 * time.Second

var errClosed = errors.New("connection is not open")

type Options struct {
	URI      string // opaque connection string, handed to the driver as-is
	Database string
	Timeout  time.Duration // bound on every network round trip
}

// Conn owns one client connection to the document store. Whoever calls Open
// must call Close; Close is safe to call more than once.
type Conn struct {
	client  *mongo.Client
	db      string
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// Open connects and pings the primary before returning, so a broken
// connection string or credential fails here instead of on first use.
func Open(ctx context.Context, o Options) (*Conn, error) {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	opts := options.Client().
		ApplyURI(o.URI).
		SetConnectTimeout(o.Timeout).
		SetServerSelectionTimeout(o.Timeout)

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &domain.ConnectionError{Op: "open", Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		dctx, dcancel := context.WithTimeout(context.Background(), o.Timeout)
		defer dcancel()
		_ = client.Disconnect(dctx)
		return nil, &domain.ConnectionError{Op: "open", Err: err}
	}
	log.Info().Str("database", o.Database).Msg("document store connection ok")
	return &Conn{client: client, db: o.Database, timeout: o.Timeout}, nil
}

// Collection returns a handle scoped to the named collection.
func (c *Conn) Collection(name string) (*mongo.Collection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.client == nil {
		return nil, &domain.ConnectionError{Op: "collection", Err: errClosed}
	}
	return c.client.Database(c.db).Collection(name), nil
}

// Ping is a liveness check against the primary.
func (c *Conn) Ping(ctx context.Context) error {
	c.mu.RLock()
	client, closed := c.client, c.closed
	c.mu.RUnlock()
	if closed || client == nil {
		return &domain.ConnectionError{Op: "ping", Err: errClosed}
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return &domain.ConnectionError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the connection. Closing twice is a no-op.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.client == nil {
		c.closed = true
		return nil
	}
	c.closed = true
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.client.Disconnect(ctx); err != nil {
		return &domain.ConnectionError{Op: "close", Err: err}
	}
	log.Info().Str("database", c.db).Msg("document store connection closed")
	return nil
}

func (c *Conn) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}
