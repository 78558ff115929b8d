// Package game is the simulation core: one Session per player runs entity
// motion, collisions, the player's life cycle and level progression, driven by
// the host through Tick and a Scheduler.
package game

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/debuglog"
	"github.com/tomz197/figs-in-space/internal/input"
	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// ErrNoScheduler is returned by New when Options.Scheduler is nil.
var ErrNoScheduler = errors.New("game: scheduler is required")

// Mode is fixed for the lifetime of a session.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeDemo
)

func (m Mode) String() string {
	if m == ModeDemo {
		return "demo"
	}
	return "normal"
}

// Result is reported once when a session ends.
type Result struct {
	Score     int
	Level     int
	Mode      Mode
	SessionID string
}

// Reporter receives the end of a session.
type Reporter interface {
	GameOver(Result)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Result)

func (f ReporterFunc) GameOver(r Result) { f(r) }

// Options wires a Session to its collaborators. Only Scheduler is required.
type Options struct {
	Tuning    config.Tuning
	Scheduler Scheduler
	Rand      *rand.Rand
	Override  *input.Override
	Recorder  *debuglog.Recorder
	Reporter  Reporter
	Logger    *log.Logger
	Flags     config.Flags
}

// Session is a single-player game. It is not safe for concurrent use: the
// host calls Tick, key events and Scheduler callbacks from one goroutine.
type Session struct {
	t        config.Tuning
	world    object.World
	sched    Scheduler
	rng      *rand.Rand
	override *input.Override
	recorder *debuglog.Recorder
	reporter Reporter
	logger   *log.Logger
	flags    config.Flags
	pilot    *Autopilot
	tracker  *input.Tracker
	grid     *physics.SpatialGrid

	id      string
	mode    Mode
	started bool
	paused  bool
	now     time.Duration

	ship        *object.Ship
	hazards     []*object.Hazard
	lasers      []*object.Projectile
	enemyLasers []*object.Projectile
	saucers     []*object.Saucer
	wells       []*object.Well
	explosions  []*object.Explosion

	score      int
	level      int
	lives      int
	multiplier float64
	gameOver   bool
	ended      bool

	alive             bool
	invulnerableUntil time.Duration
	lastShotAt        time.Duration
	shooting          bool // fire held since the last shot
	keys              input.KeySet

	respawnTimer Timer
	endTimer     Timer

	// scratch space reused every tick
	splits    []bool
	neighbors []int
	spawned   []*object.Hazard
}

// New validates the tuning and wires a session. Call StartSession before Tick.
func New(opts Options) (*Session, error) {
	if err := opts.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("game: new session: %w", err)
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	override := opts.Override
	if override == nil {
		override = input.NewOverride()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	t := opts.Tuning
	// Two of the largest hazards interact within one cell of each other.
	cell := 2 * float64(t.Hazards.MaxRadius)

	s := &Session{
		t:        t,
		world:    object.World{Width: t.World.Width, Height: t.World.Height},
		sched:    opts.Scheduler,
		rng:      rng,
		override: override,
		recorder: opts.Recorder,
		reporter: opts.Reporter,
		logger:   logger.WithPrefix("game"),
		flags:    opts.Flags,
		grid:     physics.NewSpatialGrid(t.World.Width, t.World.Height, cell),
	}
	s.pilot = NewAutopilot(rng)
	s.tracker = input.NewTracker(s.logInput)
	return s, nil
}

func (s *Session) logInput(ev input.Event) {
	if s.recorder != nil {
		s.recorder.LogInput(ev)
	}
}

// StartSession resets all state and starts a new game at now.
func (s *Session) StartSession(mode Mode, now time.Duration) {
	s.Stop()

	s.id = uuid.NewString()
	s.mode = mode
	s.started = true
	s.paused = false
	s.now = now

	s.hazards = s.hazards[:0]
	s.lasers = s.lasers[:0]
	s.enemyLasers = s.enemyLasers[:0]
	s.saucers = s.saucers[:0]
	s.wells = s.wells[:0]
	s.explosions = s.explosions[:0]

	s.ship = object.NewShip(s.world.Center())
	s.alive = true
	s.invulnerableUntil = 0
	s.lastShotAt = now - s.t.Weapons.ShotCooldown
	s.shooting = false
	s.gameOver = false
	s.ended = false
	s.tracker = input.NewTracker(s.logInput)

	s.score = 0
	s.level = 1
	s.lives = s.t.Player.InitialLives
	if mode == ModeDemo {
		d := s.t.Demo
		s.score = between(s.rng, d.MinScore, d.MaxScore)
		s.level = between(s.rng, d.MinLevel, d.MaxLevel)
		s.lives = between(s.rng, d.MinLives, d.MaxLives)
	}

	if s.recorder != nil {
		s.recorder.SetSession(s.id)
	}
	switch {
	case s.flags.AutoTest:
		seq, err := input.NamedSequence("user-thrust-test")
		if err != nil {
			s.logger.Error("load test sequence", "err", err)
		}
		s.override.SetEnabled(true)
		s.override.SetSequence(seq)
		s.setRecording(true)
		s.logger.Info("starting scripted input", "sequence", "user-thrust-test")
	case mode == ModeDemo:
		s.override.SetEnabled(true)
		s.override.SetSequence(nil)
	default:
		s.override.SetEnabled(false)
		s.setRecording(s.flags.Recording())
	}

	s.StartLevel(s.level)
	s.logger.Info("session started",
		"id", s.id,
		"mode", mode,
		"level", s.level,
		"lives", s.lives,
		"score", s.score,
	)
}

func (s *Session) setRecording(on bool) {
	if s.recorder != nil {
		s.recorder.SetEnabled(on)
	}
}

// Tick advances the simulation to now. delta is the time since the previous tick.
func (s *Session) Tick(now, delta time.Duration) {
	if !s.started || s.paused {
		return
	}
	s.now = now
	dt := millis(delta)
	if dt <= 0 {
		return
	}

	if s.gameOver {
		s.move(dt)
		s.compact()
		return
	}

	if s.mode == ModeDemo {
		s.override.SetManual(s.pilot.Decide(s))
	}
	s.override.Update(now)
	s.keys = input.Resolve(s.tracker.Held(), s.override)

	if s.alive {
		s.ship.Steer(s.keys, dt, s.t.Player)
		for _, w := range s.wells {
			s.ship.Vel = w.Attract(s.ship.Pos, s.ship.Vel)
		}
		s.ship.Drift(dt, s.t.Player, s.world)
	}
	s.tryFire(now)
	s.move(dt)
	s.collide(now)
	s.compact()
	s.checkLevel()

	if s.recorder != nil {
		s.recorder.LogState(s.Snapshot())
	}
}

// move advances every entity except the ship.
func (s *Session) move(dt float64) {
	nowMs := millis(s.now)

	for _, l := range s.lasers {
		l.Update(dt, s.world)
	}
	for _, l := range s.enemyLasers {
		l.Update(dt, s.world)
	}
	for _, sc := range s.saucers {
		if sc.Destroyed {
			continue
		}
		if laser := sc.Update(nowMs, dt, s.ship.Pos, s.t.Enemies, s.world); laser != nil {
			s.enemyLasers = append(s.enemyLasers, laser)
		}
	}
	for _, h := range s.hazards {
		for _, w := range s.wells {
			h.Vel = w.Attract(h.Pos, h.Vel)
		}
		h.Update(dt, s.t.Hazards.Spin, s.world)
	}
	for _, e := range s.explosions {
		e.Update(dt)
	}
}

func (s *Session) compact() {
	s.hazards = object.Compact(s.hazards, func(h *object.Hazard) bool { return h.Destroyed })
	s.lasers = object.Compact(s.lasers, func(p *object.Projectile) bool { return p.Expired })
	s.enemyLasers = object.Compact(s.enemyLasers, func(p *object.Projectile) bool { return p.Expired })
	s.saucers = object.Compact(s.saucers, func(sc *object.Saucer) bool { return sc.Destroyed })
	s.explosions = object.Compact(s.explosions, func(e *object.Explosion) bool { return e.Expired() })
}

// tryFire launches a laser from the ship's nose when the trigger allows it.
func (s *Session) tryFire(now time.Duration) {
	if !s.alive {
		return
	}
	if !s.keys.Has(input.KeyFire) {
		s.shooting = false
		return
	}
	if s.shooting || now-s.lastShotAt < s.t.Weapons.ShotCooldown {
		return
	}
	s.lastShotAt = now
	s.shooting = true

	w := s.t.Weapons
	muzzle := s.ship.Nose(s.t.Player.Size / 2)
	lifespan := millis(s.LaserLifespan())
	s.lasers = append(s.lasers, object.NewProjectile(object.OwnerPlayer, muzzle, s.ship.Rotation, w.LaserSpeed, lifespan, 0))
}

// LaserLifespan grows by one step every few levels and never exceeds the time a
// laser needs to cross the field's diagonal.
func (s *Session) LaserLifespan() time.Duration {
	w := s.t.Weapons
	steps := (s.level - 1) / w.LevelsPerStep
	lifespan := w.BaseLifespan + time.Duration(steps)*w.LifespanStep

	diagonal := math.Hypot(s.t.World.Width, s.t.World.Height)
	limit := time.Duration(math.Ceil(diagonal/w.LaserSpeed)) * time.Millisecond
	return min(lifespan, limit)
}

// KeyDown forwards a live key press.
func (s *Session) KeyDown(k input.Key, now time.Duration) {
	s.tracker.Press(k, now)
}

// KeyUp forwards a live key release. Releasing fire re-arms the trigger.
func (s *Session) KeyUp(k input.Key, now time.Duration) {
	if s.tracker.Release(k, now) && k == input.KeyFire {
		s.shooting = false
	}
}

// ReleaseKeys drops all live keys, as when an overlay takes focus.
func (s *Session) ReleaseKeys(now time.Duration) {
	s.tracker.Reset(now)
	s.shooting = false
}

// Pause stops Tick from advancing the simulation. Scheduled timers still fire.
func (s *Session) Pause() { s.paused = true }

// Resume undoes Pause.
func (s *Session) Resume() { s.paused = false }

func (s *Session) Paused() bool        { return s.paused }
func (s *Session) Score() int          { return s.score }
func (s *Session) Lives() int          { return s.lives }
func (s *Session) Level() int          { return s.level }
func (s *Session) Multiplier() float64 { return s.multiplier }
func (s *Session) GameOver() bool      { return s.gameOver }
func (s *Session) Mode() Mode          { return s.mode }
func (s *Session) Now() time.Duration  { return s.now }
func (s *Session) SessionID() string   { return s.id }
func (s *Session) Flags() config.Flags { return s.flags }
func (s *Session) World() object.World { return s.world }

// Ship returns the player's craft. It is nil before StartSession.
func (s *Session) Ship() *object.Ship { return s.ship }

// Keys is the resolved input state of the last tick.
func (s *Session) Keys() input.KeySet { return s.keys }

// Counts returns the live entity counts.
func (s *Session) Counts() (hazards, lasers, saucers, wells int) {
	return len(s.hazards), len(s.lasers), len(s.saucers), len(s.wells)
}

// Sprites appends the render view of every entity to dst, background first.
func (s *Session) Sprites(dst []object.Sprite) []object.Sprite {
	for _, w := range s.wells {
		dst = append(dst, w.Sprite())
	}
	for _, h := range s.hazards {
		dst = append(dst, h.Sprite())
	}
	for _, sc := range s.saucers {
		dst = append(dst, sc.Sprite(s.t.Enemies.HitRadius))
	}
	for _, l := range s.lasers {
		dst = append(dst, l.Sprite())
	}
	for _, l := range s.enemyLasers {
		dst = append(dst, l.Sprite())
	}
	for _, e := range s.explosions {
		dst = append(dst, e.Sprite())
	}
	if s.ship != nil {
		dst = append(dst, s.ship.Sprite(s.now, s.t.Player.Size/2))
	}
	return dst
}

// Snapshot returns the recorder view of the current frame.
func (s *Session) Snapshot() debuglog.FrameState {
	fs := debuglog.FrameState{
		Timestamp:   s.now,
		Input:       s.keys.Flags(),
		LaserCount:  len(s.lasers),
		HazardCount: len(s.hazards),
		SaucerCount: len(s.saucers),
		Score:       s.score,
		Lives:       s.lives,
		Level:       s.level,
	}
	if s.ship != nil {
		fs.PlayerPosition = debuglog.Point{X: s.ship.Pos.X, Y: s.ship.Pos.Y}
		fs.PlayerRotation = s.ship.Rotation
		fs.PlayerVelocity = debuglog.Point{X: s.ship.Vel.X, Y: s.ship.Vel.Y}
	}
	if len(s.lasers) > 0 {
		fs.LaserPositions = make([]debuglog.Point, len(s.lasers))
		for i, l := range s.lasers {
			fs.LaserPositions[i] = debuglog.Point{X: l.Pos.X, Y: l.Pos.Y}
		}
	}
	return fs
}

func (s *Session) addExplosion(pos physics.Vec2, radius float64) {
	duration := millis(s.t.Effects.ExplosionDuration)
	s.explosions = append(s.explosions, object.NewExplosion(s.rng, pos, radius, duration))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// floatBetween returns a uniform float in [lo, hi).
func floatBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
