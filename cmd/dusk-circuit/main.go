package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/audio"
	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/core"
	"github.com/lixenwraith/dusk-circuit/engine"
	"github.com/lixenwraith/dusk-circuit/event"
	"github.com/lixenwraith/dusk-circuit/input"
	"github.com/lixenwraith/dusk-circuit/logging"
	"github.com/lixenwraith/dusk-circuit/race"
	"github.com/lixenwraith/dusk-circuit/render"
	"github.com/lixenwraith/dusk-circuit/service"
	"github.com/lixenwraith/dusk-circuit/status"
	"github.com/lixenwraith/dusk-circuit/store"
	"github.com/lixenwraith/dusk-circuit/telemetry"
)

var (
	configDir = flag.String("config", ".", "directory containing "+config.FileName)
	demo      = flag.Bool("demo", false, "let the autopilot drive")
	mute      = flag.Bool("mute", false, "disable audio")
	logLevel  = flag.String("log-level", "", "override the configured log level")
)

func main() {
	// Panic recovery: restore the terminal before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	// glfw and the frame loop share this thread
	runtime.LockOSThread()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dusk-circuit: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configDir)
	if err != nil {
		return cfg, err
	}
	if !*mute && *logLevel == "" {
		return cfg, nil
	}
	if *mute {
		config.Set("audio.enabled", false)
	}
	if *logLevel != "" {
		config.Set("logLevel", *logLevel)
	}
	return config.Current()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logs, err := logging.Open(cfg)
	if err != nil {
		return err
	}
	defer logs.Close()
	log := logs.Logger

	// Background services degrade instead of failing startup
	hub := service.NewHub()
	audioSvc := audio.NewService(cfg.Audio.Enabled, cfg.Audio.RampCap, log)
	storeSvc := store.NewService(cfg.Store, log)
	influx := telemetry.NewInflux(cfg.Influx, log)
	for _, svc := range []service.Service{audioSvc, storeSvc, influx} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(); err != nil {
		return fmt.Errorf("starting services: %w", err)
	}
	defer func() {
		if err := hub.StopAll(); err != nil {
			log.Warn().Err(err).Msg("Service shutdown incomplete")
		}
	}()
	if err := hub.StartAll(); err != nil {
		return fmt.Errorf("starting services: %w", err)
	}
	logDegraded(log, hub)

	bus := event.NewBus()
	bus.Register(storeSvc)
	bus.Register(influx)
	ctx, cancel := context.WithCancel(context.Background())
	bus.Start(ctx)
	defer func() {
		cancel()
		bus.Wait()
	}()

	meters, err := telemetry.NewMeters(telemetry.Meter(), bus.Queue().Len)
	if err != nil {
		log.Warn().Err(err).Msg("Metrics unavailable")
		meters = nil
	}
	registry := status.NewRegistry()

	prefs := storeSvc.Preferences(cfg.Prefs)
	sess, err := race.New(race.Options{
		Samples:    cfg.Track.Samples,
		FixedStep:  cfg.Sim.FixedStep,
		MaxFrameDt: cfg.Sim.MaxFrameDt,
		Prefs:      prefs,
		Synth:      audioSvc.Synth(),
		Bus:        bus,
		Status:     registry,
		Meters:     meters,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()

	agg := input.NewAggregator(inputOptions(cfg, log, screen, audioSvc.Synth(), sess)...)
	sess.AttachInput(agg)
	if err := sess.Spawn(); err != nil {
		return err
	}
	// Dispose before the bus drains so the session record is delivered
	defer sess.Dispose()

	profile := sess.Profile()
	orch := render.NewOrchestrator(screen)
	orch.Register(render.NewMinimap(sess.Track(), profile.Minimap), render.PriorityMinimap)
	orch.Register(render.HUD{}, render.PriorityHUD)
	orch.Register(render.NewStatusOverlay(registry, profile.StatusOverlay), render.PriorityOverlay)

	interval := max(cfg.FrameInterval(), profile.FrameInterval)
	clock := engine.NewPausableClock(nil)
	events := make(chan tcell.Event, 128)

	loop := engine.NewLoop(clock, interval, func(tk engine.Tick) {
		drainEvents(events, agg, orch)
		sess.Update(race.FrameContext{Dt: tk.Dt, Now: tk.Now})
		orch.RenderFrame(render.Context{Hud: sess.HudState(), Frame: tk.Frame})
	})

	core.Go(func() {
		pollEvents(screen, loop, clock, events)
	})

	log.Info().
		Str("quality", profile.Quality).
		Dur("frame", interval).
		Bool("demo", *demo).
		Msg("Race started")
	loop.Run()
	log.Info().Uint64("frames", loop.Frames()).Msg("Race stopped")
	return nil
}

func inputOptions(cfg config.Config, log zerolog.Logger, screen tcell.Screen, synth *audio.Synth, sess *race.Session) []input.Option {
	initial, repeat := cfg.KeyHold()
	opts := []input.Option{
		input.WithLogger(log),
		input.WithKeyHold(initial, repeat),
		input.WithLocker(input.ScreenLocker{Screen: screen}),
	}
	if synth != nil {
		opts = append(opts, input.WithInteract(synth.Unlocker().Signal))
	}
	if cfg.Input.Gamepad {
		pad, err := input.OpenGamepad()
		if err != nil {
			log.Warn().Err(err).Msg("Gamepad support unavailable")
		} else {
			opts = append(opts, input.WithGamepad(pad))
		}
	}
	if *demo {
		opts = append(opts, input.WithSource(sess.Autopilot()))
	}
	return opts
}

func logDegraded(log zerolog.Logger, hub *service.Hub) {
	for _, name := range hub.Order() {
		svc, ok := service.Get[service.Service](hub, name)
		if !ok {
			continue
		}
		if d, ok := svc.(service.Degradable); ok && d.Disabled() {
			log.Info().Str("service", name).Msg("Service running disabled")
		}
	}
}

// drainEvents hands queued terminal events to input on the frame goroutine
func drainEvents(events <-chan tcell.Event, agg *input.Aggregator, orch *render.Orchestrator) {
	for {
		select {
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				orch.Resize()
			}
			agg.HandleEvent(ev)
		default:
			return
		}
	}
}

// pollEvents owns screen.PollEvent; quit and pause act here so they work while frames are paused
func pollEvents(screen tcell.Screen, loop *engine.Loop, clock *engine.PausableClock, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			switch {
			case key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC:
				loop.Stop()
				return
			case key.Key() == tcell.KeyRune && (key.Rune() == 'p' || key.Rune() == 'P'):
				clock.Toggle()
				continue
			}
		}
		select {
		case events <- ev:
		case <-loop.Done():
			return
		}
	}
}
