package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/capitalcove/harbor/internal/boat"
	"github.com/capitalcove/harbor/internal/config"
	"github.com/capitalcove/harbor/internal/core/ecs"
	"github.com/capitalcove/harbor/internal/core/event"
	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/data"
	"github.com/capitalcove/harbor/internal/nav"
	"github.com/capitalcove/harbor/internal/person"
	"github.com/capitalcove/harbor/internal/persist"
	"github.com/capitalcove/harbor/internal/scripting"
	"github.com/capitalcove/harbor/internal/system"
	"github.com/capitalcove/harbor/internal/world"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Harbor  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       headless coastal simulation         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mTown:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := humanize.Comma(int64(count))
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation host ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/harbor.toml"
	if p := os.Getenv("HARBOR_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Simulation.Name)

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// 3. Load layout, placements and rules
	printSection("Data")
	layout, err := data.LoadLayout(cfg.Simulation.LayoutPath)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	printStat("Nav anchors", len(layout.Points))
	printStat("Routes", len(layout.Routes))

	placements, err := data.LoadPlacements(cfg.Simulation.PlacementsPath)
	if err != nil {
		return fmt.Errorf("placements: %w", err)
	}
	printStat("Buildings", len(placements))

	rules, err := scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer rules.Close()
	printOK("Lua rules loaded")
	fmt.Println()

	// 4. Collaborator stand-ins
	phase, err := world.ParsePhase(cfg.Director.Phase)
	if err != nil {
		return fmt.Errorf("director: %w", err)
	}
	static := world.NewStatic(phase)
	static.SetFlags(world.Flags{
		TutorialIncomeCollected: cfg.Director.TutorialIncomeCollected,
		TutorialComplete:        cfg.Director.TutorialComplete,
		DecisionReleased:        cfg.Director.DecisionReleased,
		FuelRequired:            cfg.Director.FuelRequired,
		CrunchSequence:          cfg.Director.CrunchSequence,
		ForceDockLock:           cfg.Director.ForceDockLock,
		TechPurchased:           cfg.Director.TechPurchased,
	})
	static.SetMarketHealth(cfg.Economy.MarketHealth)
	static.SetSaving(cfg.Economy.Saving)
	static.SetTech(cfg.Economy.Engine, cfg.Economy.Net)

	// 5. Entity core
	ecsWorld := ecs.NewWorld()
	bus := event.NewBus()
	visuals := system.NewVisualStore(ecsWorld)

	printSection("Harbor")
	harbor := layout.HarborGeometry()
	boats := system.NewBoatSystem(ecsWorld, bus, visuals, harbor, boatTuning(cfg.Boats),
		static, static, rules, rand.New(rand.NewSource(rng.Int63())), log)
	built := boats.BuildFleet(fleetSlots(layout, cfg.Fleet, log))
	retired := boats.Dedup()
	printStat("Berths", len(harbor.Berths))
	printStat("Boats", built-retired)

	terrain := nav.NewTerrain(cfg.People.IslandSeed, cfg.People.Radius, cfg.People.Plateau)
	people := system.NewPersonSystem(ecsWorld, bus, visuals, layout, placements, terrain,
		system.PersonConfig{
			Radius:      cfg.People.Radius,
			Plateau:     cfg.People.Plateau,
			Margin:      cfg.People.Margin,
			MaxVisitors: cfg.People.MaxVisitors,
		},
		personTuning(cfg.People), static, rules, rand.New(rand.NewSource(rng.Int63())), log)
	printStat("Graph points", people.Graph().Len())
	log.Debug("component stores", zap.Strings("names", ecsWorld.Registry().Names()))
	fmt.Println()

	// 6. Optional trip journal
	var (
		journal *system.JournalSystem
		repo    *persist.JournalRepo
		session uuid.UUID
	)
	if cfg.Database.Enabled {
		printSection("Journal")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.Open(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.Migrate(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("Schema at version %d", version))
		session = uuid.New()
		repo = persist.NewJournalRepo(db)
		journal = system.NewJournalSystem(bus, repo, static, session,
			cfg.Journal.FlushTicks, cfg.Journal.MaxPending, log)
		printReady(fmt.Sprintf("Session %s", session))
		fmt.Println()
	}

	// 7. File watching
	var layoutEvents <-chan string
	if cfg.Simulation.WatchLayout {
		watcher, err := data.NewWatcher(watchDirs(cfg.Simulation.LayoutPath, cfg.Simulation.PlacementsPath)...)
		if err != nil {
			log.Warn("layout watching disabled", zap.Error(err))
		} else {
			defer watcher.Close()
			layoutEvents = watcher.Events
			go func() {
				for err := range watcher.Errors {
					log.Warn("layout watcher", zap.Error(err))
				}
			}()
		}
	}

	// 8. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewLayoutSystem(layoutEvents, cfg.Simulation.LayoutPath, cfg.Simulation.PlacementsPath, people, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(boats)
	runner.Register(people)
	runner.Register(system.NewVisibilitySystem(people, visuals))
	if journal != nil {
		runner.Register(journal)
	}
	runner.Register(system.NewCleanupSystem(ecsWorld, log))

	var trips, revenue, catch int64
	event.Subscribe(bus, func(e event.TripCompleted) {
		trips++
		revenue += int64(e.Revenue)
		catch += int64(e.Catch)
	})

	// 9. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tick := cfg.Simulation.TickRate
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("Phase %s, market health %.2f", phase, cfg.Economy.MarketHealth))
	printReady(fmt.Sprintf("Game loop started (tick: %s)", tick))
	fmt.Println()

	statsEvery := uint64(30 * time.Second / tick)
	if statsEvery == 0 {
		statsEvery = 1
	}
	autoStart := phase != world.PhaseTutorial
	startEvery := uint64(time.Second / tick)
	if startEvery == 0 {
		startEvery = 1
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(tick)
			if autoStart && runner.Ticks()%startEvery == 0 {
				// no player in a headless run: idle boats are sent out again
				for _, b := range boats.Boats() {
					if b.State == boat.WaitingForCommand {
						event.Emit(bus, event.StartBoat{Slot: b.Slot})
					}
				}
			}
			if runner.Ticks()%statsEvery == 0 {
				log.Info("harbor stats",
					zap.Duration("sim_time", runner.Elapsed()),
					zap.Int("entities", ecsWorld.Pool().Live()),
					zap.Int("visitors", people.Count(person.Visitor)),
					zap.Int("reaped", people.Reaped()),
					zap.String("trips", humanize.Comma(trips)),
					zap.String("revenue", humanize.Comma(revenue)),
					zap.String("catch", humanize.Comma(catch)))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if journal != nil {
				journal.Flush()
				logJournalTotals(repo, session, log)
			}
			log.Info("harbor stopped",
				zap.String("uptime", humanize.RelTime(time.Unix(cfg.Simulation.StartTime, 0), time.Now(), "", "")),
				zap.String("trips", humanize.Comma(trips)))
			return nil
		}
	}
}

func logJournalTotals(repo *persist.JournalRepo, session uuid.UUID, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	trips, revenue, catch, err := repo.SessionTotals(ctx, session)
	if err != nil {
		log.Warn("journal totals unavailable", zap.Error(err))
		return
	}
	log.Info("journal session totals",
		zap.String("session", session.String()),
		zap.String("trips", humanize.Comma(trips)),
		zap.String("revenue", humanize.Comma(revenue)),
		zap.String("catch", humanize.Comma(catch)))
}

// fleetSlots prefers the layout's explicit fleet over the configured counts.
func fleetSlots(l *data.Layout, f config.FleetConfig, log *zap.Logger) []system.FleetSlot {
	if len(l.Fleet) == 0 {
		return system.FleetFromCounts(f.Row, f.Motor, f.Trawler)
	}
	out := make([]system.FleetSlot, 0, len(l.Fleet))
	for _, e := range l.Fleet {
		typ, err := boat.ParseType(e.Type)
		if err != nil {
			log.Warn("fleet entry skipped", zap.Int("slot", e.Slot), zap.Error(err))
			continue
		}
		out = append(out, system.FleetSlot{Type: typ, Slot: e.Slot})
	}
	return out
}

func boatTuning(c config.BoatConfig) boat.Tuning {
	t := boat.DefaultTuning()
	t.RowSpeed = c.RowSpeed
	t.MotorSpeed = c.MotorSpeed
	t.TrawlerSpeed = c.TrawlerSpeed
	t.CrisisFactor = c.CrisisFactor
	t.SteamFactor = c.SteamFactor
	t.DockingFactor = c.DockingFactor
	t.FishingMin = c.FishingMin
	t.FishingMax = c.FishingMax
	t.UnloadDuration = c.UnloadDuration
	t.CrateDwell = c.CrateDwell
	t.UpgradeDuration = c.UpgradeDuration
	t.WakeInterval = c.WakeInterval
	t.RowWakeInterval = c.RowWakeInterval
	t.MaxCrates = c.MaxCrates
	return t
}

func personTuning(c config.PeopleConfig) person.Tuning {
	t := person.DefaultTuning()
	t.WalkSpeed = c.WalkSpeed
	t.RunSpeed = c.RunSpeed
	t.InsideMin = c.InsideMin
	t.InsideMax = c.InsideMax
	t.WaitMin = c.WaitMin
	t.WaitMax = c.WaitMax
	t.Jitter = c.Jitter
	t.Plateau = c.Plateau
	return t
}

func watchDirs(paths ...string) []string {
	seen := make(map[string]bool, len(paths))
	var dirs []string
	for _, p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
