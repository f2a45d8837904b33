// Package database owns the MongoDB client lifecycle: connect with a
// bounded number of attempts, ping, and disconnect on shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/resellbd/resell-api/pkg/logger"
)

// Options controls Connect.
type Options struct {
	URI      string
	Database string
	Attempts int           // at least 1
	Backoff  time.Duration // multiplied by the attempt number
	Timeout  time.Duration // per attempt
}

// Conn is an open client bound to the application database.
type Conn struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// dialer is swapped in tests.
var dialer = func(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second)
	return mongo.Connect(ctx, opts)
}

var pinger = func(ctx context.Context, c *mongo.Client) error {
	return c.Ping(ctx, readpref.Primary())
}

// Connect dials and pings the server, retrying up to opts.Attempts times
// with linear backoff. It fails fast once the attempts are spent.
func Connect(ctx context.Context, opts Options) (*Conn, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("database: empty connection string")
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		client, err := tryConnect(ctx, opts)
		if err == nil {
			logger.Info("database: connected", "database", opts.Database, "attempt", attempt)
			return &Conn{Client: client, DB: client.Database(opts.Database)}, nil
		}
		lastErr = err
		logger.Warn("database: connect failed", "attempt", attempt, "of", opts.Attempts, "error", err)

		if attempt == opts.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Backoff * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("database: giving up after %d attempts: %w", opts.Attempts, lastErr)
}

func tryConnect(ctx context.Context, opts Options) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := dialer(ctx, opts.URI)
	if err != nil {
		return nil, err
	}
	if err := pinger(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Close disconnects the client. Safe on a nil Conn.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}
