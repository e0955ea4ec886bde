package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"

	"tank-game/game"
	"tank-game/game/physics"
)

// SetupRoutes initializes all routes with the game manager and the physics
// integration that backs the state stream.
func SetupRoutes(ctx context.Context, router *router.Router[*core.RequestEvent], gameManager *game.Manager, integration *physics.Integration) error {
	err := errors.Join(
		setupIndexRoutes(router, gameManager, integration),
		setupAuthRoutes(router),
	)
	if err != nil {
		return fmt.Errorf("setting up routes: %w", err)
	}
	return nil
}
