// Package cli provides the cobra commands of the ordens application.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/ordens/internal/ctxutil"
	"github.com/example/ordens/internal/wire"
)

// globalActor is the consultant acting in this CLI invocation.
// Set once at startup by ResolveActor.
var globalActor ctxutil.Actor

// ResolveActor looks up the acting consultant by email and stores it
// globally. A blank email falls back to ORDENS_ACTOR; with neither set the
// invocation runs without an actor and protected operations are refused.
func ResolveActor(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		email = wire.Config().Actor
	}
	if email == "" {
		return nil
	}

	actor, err := wire.ConsultantService().ResolveActor(context.Background(), email)
	if err != nil {
		return fmt.Errorf("failed to resolve acting consultant: %w", err)
	}
	globalActor = *actor
	return nil
}

// NewContext creates a context.Background() with the acting consultant embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if !globalActor.IsZero() {
		return ctxutil.WithActor(ctx, globalActor)
	}
	return ctx
}

// CurrentActor returns the actor resolved at startup.
func CurrentActor() ctxutil.Actor {
	return globalActor
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}
