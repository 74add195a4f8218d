package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/loadstate"
	"github.com/l1jgo/loadstate/app"
	"github.com/l1jgo/loadstate/assetserver"
	"github.com/l1jgo/loadstate/internal/config"
	"github.com/l1jgo/loadstate/packfs"
	"github.com/l1jgo/loadstate/progress"
)

// GameState is the demo's host state machine: boot, load everything the
// first playable tick needs, then ready.
type GameState int

const (
	StateBoot GameState = iota
	StateLoading
	StateReady
)

func (s GameState) String() string {
	switch s {
	case StateBoot:
		return "boot"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// worldDataCollection gathers the simulation data the game cannot start
// without: the weapon table and the boot script.
type worldDataCollection struct {
	fields *loadstate.FieldSet

	Weapons *assetserver.Table
	Boot    *assetserver.Script
}

func newWorldDataCollection() *worldDataCollection {
	return &worldDataCollection{
		fields: loadstate.NewFieldSet(
			loadstate.Static("data/weapons.yaml"),
			loadstate.Static("scripts/boot.lua"),
		),
	}
}

func (c *worldDataCollection) Name() string { return "world_data" }

func (c *worldDataCollection) StartLoad(keys *loadstate.DynamicKeys, engine loadstate.Engine) ([]loadstate.Handle, error) {
	return c.fields.Start(keys, engine)
}

func (c *worldDataCollection) Finish(engine loadstate.Engine) error {
	reader, ok := engine.(loadstate.AssetReader)
	if !ok {
		return fmt.Errorf("engine does not expose loaded assets")
	}
	if h, ok := c.fields.Handle(0); ok {
		v, _ := reader.Asset(h)
		table, ok := v.(*assetserver.Table)
		if !ok {
			return fmt.Errorf("data/weapons.yaml: not a table")
		}
		c.Weapons = table
	}
	if h, ok := c.fields.Handle(1); ok {
		v, _ := reader.Asset(h)
		script, ok := v.(*assetserver.Script)
		if !ok {
			return fmt.Errorf("scripts/boot.lua: not a script")
		}
		c.Boot = script
	}
	return nil
}

// uiCollection gathers presentation assets. The splash screen is resolved
// through the key registry so a pack can reskin it; the theme is optional
// and absent in the default install.
type uiCollection struct {
	fields *loadstate.FieldSet

	Splash []byte
	Theme  []byte
}

func newUICollection() *uiCollection {
	return &uiCollection{
		fields: loadstate.NewFieldSet(
			loadstate.Keyed("splash"),
			loadstate.OptionalKeyed("theme"),
		),
	}
}

func (c *uiCollection) Name() string { return "ui" }

func (c *uiCollection) StartLoad(keys *loadstate.DynamicKeys, engine loadstate.Engine) ([]loadstate.Handle, error) {
	return c.fields.Start(keys, engine)
}

func (c *uiCollection) Finish(engine loadstate.Engine) error {
	reader, ok := engine.(loadstate.AssetReader)
	if !ok {
		return fmt.Errorf("engine does not expose loaded assets")
	}
	if h, ok := c.fields.Handle(0); ok {
		v, _ := reader.Asset(h)
		raw, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("splash: not raw bytes")
		}
		c.Splash = raw
	}
	if h, ok := c.fields.Handle(1); ok {
		v, _ := reader.Asset(h)
		raw, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("theme: not raw bytes")
		}
		c.Theme = raw
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/demo.toml"
	if p := os.Getenv("LOADSTATE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.App.Name)

	printSection("asset sources")
	server := assetserver.New(log, cfg.Assets.Workers)
	defer server.Close()

	if cfg.Assets.Pack != "" {
		pack, err := packfs.Open(cfg.Assets.Pack)
		if err != nil {
			return fmt.Errorf("open pack %s: %w", cfg.Assets.Pack, err)
		}
		defer pack.Close()
		server.Mount(pack)
		n, err := pack.Count()
		if err != nil {
			return fmt.Errorf("count pack assets: %w", err)
		}
		printStat("packed assets", n)
	}
	server.Mount(os.DirFS(cfg.Assets.Dir))
	printOK(fmt.Sprintf("loose assets from %s/", cfg.Assets.Dir))

	keys := loadstate.NewDynamicKeys()
	if cfg.Assets.Manifest != "" {
		n, err := loadstate.LoadKeyManifest(os.DirFS(cfg.Assets.Dir), cfg.Assets.Manifest, keys)
		if err != nil {
			return fmt.Errorf("load key manifest: %w", err)
		}
		printStat("dynamic keys", n)
	}
	fmt.Println()

	states := app.NewStates(StateBoot)
	sched := app.NewSchedule(states)
	res := app.NewResources()
	bus := app.NewBus()
	sched.Register(app.NewEventPumpSystem(bus))

	driver := loadstate.NewDriver[GameState](server, keys, log)
	driver.SetResources(res)
	counter := progress.NewCounter()
	driver.SetProgress(counter)
	driver.SetObserver(app.NewLoadingObserver[GameState](bus))

	loadstate.NewPhase(StateLoading).
		ContinueTo(StateReady).
		WithCollection(newWorldDataCollection()).
		WithCollection(newUICollection()).
		InitResource(func(r loadstate.Resources) {
			v, ok := r.Lookup("world_data")
			if !ok {
				return
			}
			world := v.(*worldDataCollection)
			vm := lua.NewState()
			defer vm.Close()
			if err := world.Boot.Do(vm); err != nil {
				log.Error("boot script failed", zap.Error(err))
				return
			}
			if motd := lua.LVAsString(vm.GetGlobal("motd")); motd != "" {
				r.Publish("boot_motd", motd)
			}
		}).
		Register(driver)

	app.Subscribe(bus, func(ev app.CollectionReady[GameState]) {
		log.Info("collection ready",
			zap.Stringer("phase", ev.Phase),
			zap.String("collection", ev.Collection))
	})
	app.Subscribe(bus, func(ev app.PhaseComplete[GameState]) {
		log.Info("loading finished",
			zap.Stringer("phase", ev.Phase),
			zap.String("token", ev.Token))
	})

	var fatal error
	reportShown := false

	sched.OnEnter(StateBoot, func() {
		states.RequestTransition(StateLoading)
	})
	sched.OnEnter(StateLoading, func() {
		if err := driver.Enter(StateLoading); err != nil {
			fatal = fmt.Errorf("enter loading phase: %w", err)
		}
	})
	sched.OnUpdate(StateLoading, func() {
		counter.Reset()
		driver.Poll(StateLoading, states)
		if counter.Total() > 0 {
			log.Debug("loading progress",
				zap.Int("done", counter.Done()),
				zap.Int("total", counter.Total()),
				zap.Float64("fraction", counter.Fraction()))
		}
		if !reportShown {
			reportShown = true
			printSection("loading")
			fmt.Print(indent(driver.Snapshot(StateLoading).Render()))
			fmt.Println()
		}
	})
	sched.OnExit(StateLoading, func() {
		driver.Exit(StateLoading)
	})
	sched.OnEnter(StateReady, func() {
		printSection("ready")
		if world, ok := app.Res[*worldDataCollection](res, "world_data"); ok {
			printStat("weapon templates", world.Weapons.Count())
		}
		if ui, ok := app.Res[*uiCollection](res, "ui"); ok {
			printStat("splash bytes", len(ui.Splash))
		}
		if motd, ok := app.Res[string](res, "boot_motd"); ok {
			printReady(motd)
		}
	})

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.App.TickRate)
	defer ticker.Stop()

	log.Info("tick loop started",
		zap.Duration("tick", cfg.App.TickRate),
		zap.Int("workers", cfg.Assets.Workers))

	for {
		select {
		case <-ticker.C:
			sched.Tick(cfg.App.TickRate)
			if fatal != nil {
				return fatal
			}
			if states.Current() == StateReady {
				fmt.Println()
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func printBanner(name string) {
	fmt.Println()
	fmt.Printf("  \033[36;1m%s\033[0m\n\n", name)
}

func printSection(title string) {
	pad := 44 - len(title)
	if pad < 1 {
		pad = 1
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", pad))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dots := 40 - len(label) - len(numStr)
	if dots < 3 {
		dots = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dots), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32;1m▶ %s\033[0m\n", msg)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true

	return zapCfg.Build()
}
