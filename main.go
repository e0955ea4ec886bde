package main

import (
	"context"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/toolbelt/embeddednats"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"

	"tank-game/game"
	"tank-game/game/physics"
	"tank-game/middleware"
	_ "tank-game/migrations"
	"tank-game/routes"
	"tank-game/utils"
)

const maxNPCs = 10

func main() {
	rand.Seed(time.Now().UnixNano())

	app := pocketbase.New()

	// Assign a callsign to every new user.
	app.OnRecordCreate("users").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.Get("callsign") == "" {
			callsign := utils.GenerateCallsign()
			e.Record.Set("callsign", callsign)
			log.Info("Generated callsign for new user", "callsign", callsign)
		}
		return e.Next()
	})

	// loosely check if it was executed using "go run"
	isGoRun := strings.HasPrefix(os.Args[0], "tmp/bin")

	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: isGoRun,
	})

	log.Info("Starting embedded NATS server")
	ns, err := embeddednats.New(
		context.Background(),
		embeddednats.WithDirectory(app.DataDir()+"/nats"),
		embeddednats.WithNATSServerOptions(&server.Options{
			JetStream: true,
		}),
	)
	if err != nil {
		log.Fatal("Failed to create NATS server", "error", err)
	}
	ns.NatsServer.Start()
	ns.WaitForServer()

	nc, err := nats.Connect(ns.NatsServer.ClientURL(),
		nats.Name("tank-game-client"),
		nats.InProcessServer(ns.NatsServer),
	)
	if err != nil {
		log.Fatal("Failed to connect to NATS", "error", err)
	}
	defer nc.Drain()
	log.Info("Connected to NATS server", "url", ns.NatsServer.ClientURL())

	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatal("Failed to create JetStream context", "error", err)
	}

	ctx := context.Background()
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: "gamestate",
	})
	if err != nil {
		log.Fatal("Failed to get KV bucket", "error", err)
	}
	if err := kv.Purge(ctx, "current"); err != nil {
		log.Fatal("Failed to purge KV bucket", "error", err)
	}
	log.Info("KV store initialized")

	gameManager, err := game.NewManager(ctx, kv, nc)
	if err != nil {
		log.Fatal("Failed to initialize game manager", "error", err)
	}

	cfg := physics.DefaultConfig()
	if path := os.Getenv("PHYSICS_CONFIG"); path != "" {
		cfg, err = physics.LoadConfig(path)
		if err != nil {
			log.Fatal("Failed to load physics config", "path", path, "error", err)
		}
		log.Info("Loaded physics config", "path", path)
	}

	gameMap := game.NewGameMap()
	system := physics.NewCollisionSystem()
	physics.RegisterMapColliders(system, gameMap)

	integration := physics.NewIntegration(cfg, gameManager, system, physics.NewEffectScheduler())
	if err := integration.Start(ctx); err != nil {
		log.Fatal("Failed to start physics integration", "error", err)
	}

	npcController := game.NewNPCController(gameManager, system)
	npcController.Start(ctx)

	numNPCs := maxNPCs
	if s := os.Getenv("NUM_NPCS"); s != "" {
		if val, err := strconv.Atoi(s); err == nil && val > 0 {
			numNPCs = val
			if numNPCs > maxNPCs {
				log.Warn("Requested NPCs exceeds maximum limit",
					"requested", val, "max", maxNPCs)
				numNPCs = maxNPCs
			}
		}
	}

	patterns := []game.MovementPattern{
		game.CircleMovement,
		game.ZigzagMovement,
		game.PatrolMovement,
		game.RandomMovement,
	}
	for i := 0; i < numNPCs; i++ {
		npcController.SpawnNPC("Bot", patterns[rand.Intn(len(patterns))])
	}
	log.Info("NPC tanks spawned", "count", numNPCs)

	middleware.AddCookieSessionMiddleware(app)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := routes.SetupRoutes(ctx, se.Router, gameManager, integration); err != nil {
			return err
		}

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal("Application failed to start", "error", err)
	}
}
