package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	datastar "github.com/starfederation/datastar/sdk/go"

	"tank-game/game"
	"tank-game/game/physics"
	"tank-game/middleware"
	"tank-game/views"
)

// Signals carries the datastar signals posted by the game client.
type Signals struct {
	Update      string `json:"update"`
	ShellFired  string `json:"shellFired"`
	TankRespawn string `json:"tankRespawn"`
	GameState   string `json:"gameState"`
}

// gameStateView is the payload streamed to clients: the shared game state
// plus the current explosion effects.
type gameStateView struct {
	game.GameState
	Explosions []physics.ExplosionState `json:"explosions"`
}

func setupIndexRoutes(router *router.Router[*core.RequestEvent], gameManager *game.Manager, integration *physics.Integration) error {
	protected := router.Group("")
	protected.BindFunc(middleware.AuthGuard)

	router.POST("/update", func(e *core.RequestEvent) error {
		signals := &Signals{}
		if err := datastar.ReadSignals(e.Request, signals); err != nil {
			log.Error("Reading signals", "err", err)
			return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		playerID := "guest"
		playerName := "Guest"
		if e.Auth != nil {
			playerID = e.Auth.Id
			if callsign := e.Auth.GetString("callsign"); callsign != "" {
				playerName = callsign
			} else if email := e.Auth.Email(); email != "" {
				playerName = email
			}
		}

		if signals.ShellFired != "" {
			var shellData game.ShellData
			if err := json.Unmarshal([]byte(signals.ShellFired), &shellData); err != nil {
				log.Error("Unmarshaling shell data", "err", err)
				return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shell data"})
			}
			if _, err := gameManager.FireShell(shellData, playerID); err != nil {
				// Cooldown rejection is expected under rapid clicking.
				log.Debug("Shell rejected", "player", playerID, "err", err)
			}
		}

		if signals.TankRespawn != "" {
			var respawnData game.RespawnData
			if err := json.Unmarshal([]byte(signals.TankRespawn), &respawnData); err != nil {
				log.Error("Unmarshaling respawn data", "err", err)
				return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid respawn data"})
			}
			respawnData.PlayerID = playerID
			if err := gameManager.RespawnTank(respawnData); err != nil {
				log.Error("Respawning tank", "player", playerID, "err", err)
			}
		}

		if signals.Update != "" {
			var playerUpdate game.PlayerState
			if err := json.Unmarshal([]byte(signals.Update), &playerUpdate); err != nil {
				log.Error("Unmarshaling player update", "err", err)
				return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			if err := gameManager.UpdatePlayer(playerUpdate, playerID, playerName); err != nil {
				log.Error("Updating player", "player", playerID, "err", err)
			}
		}

		return e.JSON(http.StatusOK, map[string]bool{"success": true})
	})

	// Server-authoritative state stream. Each frame merges the full game
	// state and effect snapshot into the client's gameState signal.
	router.GET("/gamestate", func(e *core.RequestEvent) error {
		sse := datastar.NewSSE(e.Response, e.Request)

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-e.Request.Context().Done():
				return nil
			case <-ticker.C:
				view := gameStateView{
					GameState:  gameManager.GetState(),
					Explosions: integration.Effects().Snapshot(),
				}
				stateJSON, err := json.Marshal(view)
				if err != nil {
					log.Error("Marshaling game state", "err", err)
					continue
				}
				if err := sse.MergeSignals([]byte(fmt.Sprintf(`{"gameState": %q}`, string(stateJSON)))); err != nil {
					log.Error("Sending game state", "err", err)
				}
			}
		}
	})

	protected.GET("/", func(e *core.RequestEvent) error {
		ctx := context.WithValue(context.Background(), "user", e.Auth)
		return views.Index().Render(ctx, e.Response)
	})

	return nil
}
