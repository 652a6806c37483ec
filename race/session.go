// Package race composes track, physics, vehicle control, lap tracking and audio into one session
package race

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/dusk-circuit/audio"
	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/engine"
	"github.com/lixenwraith/dusk-circuit/event"
	"github.com/lixenwraith/dusk-circuit/input"
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/physics"
	"github.com/lixenwraith/dusk-circuit/progress"
	"github.com/lixenwraith/dusk-circuit/status"
	"github.com/lixenwraith/dusk-circuit/telemetry"
	"github.com/lixenwraith/dusk-circuit/track"
	"github.com/lixenwraith/dusk-circuit/vehicle"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

var ErrDisposed = errors.New("session disposed")

// InputReader is the per-frame control source; *input.Aggregator satisfies it
type InputReader interface {
	Read() input.ControlVector
	Close()
}

// Options configures a session; zero numeric fields take parameter defaults
type Options struct {
	ID            string
	ControlPoints []mgl64.Vec3
	Samples       int
	FixedStep     float64
	MaxFrameDt    float64
	Prefs         config.Preferences

	// Optional collaborators; nil disables each
	Synth  *audio.Synth
	Bus    *event.Bus
	Status *status.Registry
	Meters *telemetry.Meters
	Logger zerolog.Logger
}

// Session owns exactly one body, one smoothed control and one tracker
// Update, Spawn and Dispose run on the frame goroutine; HudState is safe from any goroutine
type Session struct {
	id    string
	prefs config.Preferences
	log   zerolog.Logger

	track    *track.Track
	world    *physics.World
	carMat   *physics.Material
	stepper  *engine.Stepper
	dyn      *vehicle.Dynamics
	tracker  *progress.Tracker
	maxFrame float64

	input  InputReader
	synth  *audio.Synth
	bus    *event.Bus
	meters *telemetry.Meters
	stats  sessionStats

	spawned  bool
	disposed bool
	audioOn  bool
	frames   uint64
	resets   int64
	elapsed  float64
	hud      atomic.Pointer[HudState]
}

// New builds the track and physics world; the car appears on Spawn
func New(opts Options) (*Session, error) {
	points := opts.ControlPoints
	if len(points) == 0 {
		points = parameter.DefaultControlPoints
	}
	n := opts.Samples
	if n == 0 {
		n = parameter.TrackSampleCount
	}
	step := opts.FixedStep
	if step <= 0 {
		step = parameter.FixedStep
	}
	maxFrame := opts.MaxFrameDt
	if maxFrame <= 0 {
		maxFrame = parameter.MaxFrameDt
	}

	tr, err := track.New(points, n)
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}

	world, carMat, err := buildWorld(tr)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       opts.ID,
		prefs:    opts.Prefs,
		log:      opts.Logger.With().Str("session", opts.ID).Logger(),
		track:    tr,
		world:    world,
		carMat:   carMat,
		stepper:  engine.NewStepper(step, maxFrame, parameter.StepTolerance),
		dyn:      vehicle.NewDynamics(tr.Start()),
		tracker:  progress.NewTracker(tr),
		maxFrame: maxFrame,
		synth:    opts.Synth,
		bus:      opts.Bus,
		meters:   opts.Meters,
		stats:    newSessionStats(opts.Status),
	}
	if s.id == "" {
		s.id = fmt.Sprintf("race-%d", time.Now().UnixNano())
	}

	s.dyn.OnReset(s.handleReset)
	s.tracker.OnLap(s.handleLap)
	s.hud.Store(&HudState{Lap: 1})
	return s, nil
}

// buildWorld registers materials, the ground and the rails
func buildWorld(tr *track.Track) (*physics.World, *physics.Material, error) {
	table := physics.NewMaterialTable(physics.ContactMaterial{})
	ground := table.Material(parameter.MaterialGround)
	car := table.Material(parameter.MaterialCar)
	rail := table.Material(parameter.MaterialRail)

	if err := table.Connect(ground, car, physics.ContactMaterial{}); err != nil {
		return nil, nil, err
	}
	if err := table.Connect(rail, car, physics.ContactMaterial{}); err != nil {
		return nil, nil, err
	}

	world, err := physics.NewWorld(table, ground, parameter.Gravity)
	if err != nil {
		return nil, nil, fmt.Errorf("building world: %w", err)
	}
	for _, r := range tr.Rails(parameter.TrackWidth) {
		box := physics.Box{
			Center:        r.Center,
			Along:         r.Along,
			Across:        r.Across,
			HalfLength:    r.HalfLength,
			HalfThickness: r.HalfThickness,
			Material:      rail,
		}
		if err := world.AddBox(box); err != nil {
			return nil, nil, fmt.Errorf("adding rail: %w", err)
		}
	}
	return world, car, nil
}

func (s *Session) ID() string { return s.id }

// Track is the shared, read-only centerline
func (s *Session) Track() *track.Track {
	return s.track
}

// Prefs returns the preferences the session was started with
func (s *Session) Prefs() config.Preferences {
	return s.prefs
}

// Profile returns the display profile of the session's quality tier
func (s *Session) Profile() Profile {
	return ProfileFor(s.prefs.Quality)
}

// AttachInput sets the control source; the session closes it on Dispose
func (s *Session) AttachInput(r InputReader) {
	s.input = r
}

// Autopilot returns a control source that drives this session's car
func (s *Session) Autopilot() *vehicle.Autopilot {
	return vehicle.NewAutopilot(s.track.Samples, s.dyn.Body, s.progressIndex)
}

func (s *Session) progressIndex() int {
	return s.tracker.State().LastProgressIndex
}

// Spawn places the car at the start; repeated calls are ignored
func (s *Session) Spawn() error {
	if s.disposed {
		return ErrDisposed
	}
	if s.spawned {
		return nil
	}
	body := physics.NewRigidBody(parameter.VehicleMass, parameter.VehicleRadius, parameter.VehicleHalfHeight, s.carMat)
	if err := s.world.AddBody(body); err != nil {
		return fmt.Errorf("spawning car: %w", err)
	}
	s.dyn.Attach(body)
	s.spawned = true
	s.dyn.Reset()
	s.log.Info().Str("car", s.prefs.CarStyle()).Str("quality", s.prefs.NormalizedQuality()).Msg("Car spawned")
	s.publishHud()
	return nil
}

// Update runs one frame: input, fixed steps, lap tracking and audio
// It is a no-op before Spawn and after Dispose
func (s *Session) Update(fc FrameContext) {
	if !s.spawned || s.disposed {
		return
	}
	s.frames++

	var in input.ControlVector
	if s.input != nil {
		in = s.input.Read()
	}
	s.dyn.Control(in)

	contacts := s.world.Contacts()
	steps := s.stepper.Advance(fc.Dt, func(step float64) {
		s.dyn.Step(step)
		s.world.Step(step)
	})

	dt := fc.Dt
	if math.IsNaN(dt) {
		dt = 0
	}
	dt = vmath.Clamp(dt, 0, s.maxFrame)
	s.elapsed += dt
	body := s.dyn.Body()
	s.tracker.Update(body.Position, dt)

	mph := vehicle.SpeedMph(body)
	slip := vehicle.LateralSlip(body)
	if s.synth != nil {
		s.synth.Update(audio.Frame{
			SpeedMph:    mph,
			Throttle:    s.dyn.Smoothed().Drive,
			LateralSlip: slip,
			Dt:          dt,
		})
	}

	hit := s.world.Contacts() - contacts
	s.meters.Steps(steps)
	s.meters.Contacts(hit)
	s.stats.frame(s.stepper.Total(), s.frames, mph, slip, s.world.Contacts())
	if s.synth != nil {
		u := s.synth.Unlocker()
		if !s.audioOn && u.Unlocked() {
			s.audioOn = true
			s.publish(event.AudioUnlocked, nil)
		}
		s.stats.audio(u.State().String(), s.synth.Levels().EngineHz)
	}
	s.publishHud()
}

// HudState returns the latest snapshot
func (s *Session) HudState() HudState {
	return *s.hud.Load()
}

func (s *Session) publishHud() {
	lap := s.tracker.State()
	h := &HudState{
		Lap:      lap.Lap,
		LapTime:  lap.LapTime,
		LastLap:  lap.LastLap,
		BestLap:  lap.BestLap,
		Progress: lap.LastProgressIndex,
		Spawned:  s.spawned && !s.disposed,
	}
	if b := s.dyn.Body(); b != nil {
		h.SpeedMph = vehicle.SpeedMph(b)
		h.Gear = vehicle.Gear(h.SpeedMph)
		h.Position = b.Position
	}
	s.hud.Store(h)
}

// Dispose stops audio, detaches input and removes the car before returning
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	if s.synth != nil {
		s.synth.Close()
	}
	if s.input != nil {
		s.input.Close()
	}

	lap := s.tracker.State()
	if b := s.dyn.Body(); b != nil {
		s.world.RemoveBody(b)
	}
	s.dyn.Detach()
	s.publishHud()

	s.publish(event.SessionEnded, &event.SessionEndedPayload{
		Session:  s.id,
		Laps:     lap.Lap - 1,
		BestLap:  lap.BestLap,
		Duration: s.elapsed,
		Steps:    s.stepper.Total(),
	})
	s.log.Info().Int("laps", lap.Lap-1).Float64("best", lap.BestLap).Msg("Session disposed")
}

func (s *Session) handleReset() {
	s.tracker.Reset()
	s.resets++
	s.meters.Reset()
	s.stats.reset(s.resets)
	s.publish(event.VehicleReset, &event.VehicleResetPayload{
		Session: s.id,
		Lap:     s.tracker.State().Lap,
		At:      time.Now(),
	})
	s.log.Debug().Int64("resets", s.resets).Msg("Vehicle reset")
}

func (s *Session) handleLap(l progress.Lap) {
	car := s.prefs.CarStyle()
	s.meters.Lap(car)
	s.stats.lap(l.Number+1, s.tracker.State().BestLap)
	s.publish(event.LapCompleted, &event.LapCompletedPayload{
		Session: s.id,
		Car:     car,
		Quality: s.prefs.NormalizedQuality(),
		Lap:     l.Number,
		Time:    l.Time,
		Splits:  l.Splits,
		Best:    l.Best,
		At:      time.Now(),
	})
	s.log.Info().Int("lap", l.Number).Float64("time", l.Time).Bool("best", l.Best).Msg("Lap completed")
}

func (s *Session) publish(t event.Type, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{Type: t, Frame: s.frames, Payload: payload})
}
