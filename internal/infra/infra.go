// Package infra builds the clients for the service's external backends.
package infra

import (
	"context"
	"fmt"
	"time"
)

const connectTimeout = 5 * time.Second

// verify runs a backend's ping under connectTimeout and tags the error with
// the backend name.
func verify(ctx context.Context, backend string, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", backend, err)
	}
	return nil
}
