package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTuning wraps every validation failure from Tuning.Validate.
var ErrInvalidTuning = errors.New("config: invalid tuning")

// EnemyPolicy decides what happens to a saucer that drifts off the play field.
type EnemyPolicy string

const (
	// EnemyWrap wraps saucers toroidally like hazards.
	EnemyWrap EnemyPolicy = "wrap"
	// EnemyDespawn removes saucers once they pass DespawnMargin outside the field.
	EnemyDespawn EnemyPolicy = "despawn"
)

// Tuning holds every gameplay constant. Speeds are in px/ms, times are durations.
type Tuning struct {
	World   WorldTuning  `yaml:"world"`
	Player  PlayerTuning `yaml:"player"`
	Weapons WeaponTuning `yaml:"weapons"`
	Hazards HazardTuning `yaml:"hazards"`
	Enemies EnemyTuning  `yaml:"enemies"`
	Wells   WellTuning   `yaml:"wells"`
	Levels  LevelTuning  `yaml:"levels"`
	Demo    DemoTuning   `yaml:"demo"`
	Effects EffectTuning `yaml:"effects"`
	Host    HostTuning   `yaml:"host"`
}

// WorldTuning is the size of the toroidal play field.
type WorldTuning struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerTuning configures the ship and its life cycle.
type PlayerTuning struct {
	Size           float64       `yaml:"size"`   // visual length; the muzzle sits at half of it
	Radius         float64       `yaml:"radius"` // added to hazard radius for contact
	MaxSpeed       float64       `yaml:"max_speed"`
	RotationRate   float64       `yaml:"rotation_rate"` // rad/ms
	Thrust         float64       `yaml:"thrust"`        // px/ms²
	Drag           float64       `yaml:"drag"`          // velocity factor per tick
	InitialLives   int           `yaml:"initial_lives"`
	RespawnDelay   time.Duration `yaml:"respawn_delay"`
	Invulnerable   time.Duration `yaml:"invulnerable"`
	GameOverDelay  time.Duration `yaml:"game_over_delay"`
	RespawnOpacity float64       `yaml:"respawn_opacity"`
}

// WeaponTuning configures player lasers.
type WeaponTuning struct {
	ShotCooldown  time.Duration `yaml:"shot_cooldown"`
	LaserSpeed    float64       `yaml:"laser_speed"`
	BaseLifespan  time.Duration `yaml:"base_lifespan"`
	LifespanStep  time.Duration `yaml:"lifespan_step"`
	LevelsPerStep int           `yaml:"levels_per_step"`
	HitBuffer     float64       `yaml:"hit_buffer"`
}

// HazardTuning configures figs and their fragments.
type HazardTuning struct {
	MinRadius      int     `yaml:"min_radius"`
	MaxRadius      int     `yaml:"max_radius"`
	MinSpeed       float64 `yaml:"min_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
	Spin           float64 `yaml:"spin"`             // rad/ms
	LargeRadius    float64 `yaml:"large_radius"`     // bouncing hazards above this split
	MinSplitRadius float64 `yaml:"min_split_radius"` // only hazards above this leave fragments
	FragmentScale  float64 `yaml:"fragment_scale"`
	MinFragments   int     `yaml:"min_fragments"`
	MaxFragments   int     `yaml:"max_fragments"`
	MinScore       int     `yaml:"min_score"`
	SeparationSlop float64 `yaml:"separation_slop"`
}

// EnemyTuning configures saucers and their lasers.
type EnemyTuning struct {
	FromLevel            int           `yaml:"from_level"`
	LevelsPerExtra       int           `yaml:"levels_per_extra"`
	BaseSpeed            float64       `yaml:"base_speed"`
	SpeedPerLevel        float64       `yaml:"speed_per_level"`
	BaseFireInterval     time.Duration `yaml:"base_fire_interval"`
	FireIntervalPerLevel time.Duration `yaml:"fire_interval_per_level"`
	MinFireInterval      time.Duration `yaml:"min_fire_interval"`
	SpawnOffset          float64       `yaml:"spawn_offset"` // start this far outside the left or right edge
	EdgeMargin           float64       `yaml:"edge_margin"`  // keep spawn height this far from top and bottom
	WobbleFrequency      float64       `yaml:"wobble_frequency"`
	WobbleAmplitude      float64       `yaml:"wobble_amplitude"`
	LaserSpeed           float64       `yaml:"laser_speed"`
	LaserLifespan        time.Duration `yaml:"laser_lifespan"`
	LaserMargin          float64       `yaml:"laser_margin"`
	HitRadius            float64       `yaml:"hit_radius"`        // player laser vs saucer
	PlayerHitRadius      float64       `yaml:"player_hit_radius"` // saucer vs player
	LaserHitRadius       float64       `yaml:"laser_hit_radius"`  // enemy laser vs player
	Score                int           `yaml:"score"`
	Offscreen            EnemyPolicy   `yaml:"offscreen"`
	DespawnMargin        float64       `yaml:"despawn_margin"`
}

// WellTuning configures gravity wells.
type WellTuning struct {
	FromLevel      int     `yaml:"from_level"`
	LevelsPerExtra int     `yaml:"levels_per_extra"`
	Radius         float64 `yaml:"radius"`
	Pull           float64 `yaml:"pull"`
	EdgeMargin     float64 `yaml:"edge_margin"`
}

// LevelTuning configures level scaling.
type LevelTuning struct {
	BaseHazards    int     `yaml:"base_hazards"`
	CapLevel       int     `yaml:"cap_level"`
	MultiplierStep float64 `yaml:"multiplier_step"`
	SpeedStep      float64 `yaml:"speed_step"`
}

// DemoTuning bounds the random starting state of attract-mode sessions.
type DemoTuning struct {
	MinScore int `yaml:"min_score"`
	MaxScore int `yaml:"max_score"`
	MinLevel int `yaml:"min_level"`
	MaxLevel int `yaml:"max_level"`
	MinLives int `yaml:"min_lives"`
	MaxLives int `yaml:"max_lives"`
}

// EffectTuning configures destruction effects.
type EffectTuning struct {
	ExplosionDuration time.Duration `yaml:"explosion_duration"`
	ExplosionRadius   float64       `yaml:"explosion_radius"`
}

// HostTuning configures the terminal host around the simulation.
type HostTuning struct {
	FPS             int           `yaml:"fps"`
	AttractInterval time.Duration `yaml:"attract_interval"`
	HelpDuration    time.Duration `yaml:"help_duration"`
	ResultDuration  time.Duration `yaml:"result_duration"`
	NameTimeout     time.Duration `yaml:"name_timeout"` // name entry saves on its own after this
	MaxNameLength   int           `yaml:"max_name_length"`
	MaxTermWidth    int           `yaml:"max_term_width"`
	MaxTermHeight   int           `yaml:"max_term_height"`
}

// FrameTime is the host frame period.
func (h HostTuning) FrameTime() time.Duration {
	return time.Second / time.Duration(h.FPS)
}

// Default returns the built-in tuning. It matches defaults/tuning.yaml.
func Default() Tuning {
	return Tuning{
		World: WorldTuning{Width: 960, Height: 720},
		Player: PlayerTuning{
			Size:           48,
			Radius:         24,
			MaxSpeed:       0.35,
			RotationRate:   0.003,
			Thrust:         0.0005,
			Drag:           0.995,
			InitialLives:   10,
			RespawnDelay:   750 * time.Millisecond,
			Invulnerable:   2000 * time.Millisecond,
			GameOverDelay:  1000 * time.Millisecond,
			RespawnOpacity: 0.35,
		},
		Weapons: WeaponTuning{
			ShotCooldown:  200 * time.Millisecond,
			LaserSpeed:    0.4,
			BaseLifespan:  600 * time.Millisecond,
			LifespanStep:  300 * time.Millisecond,
			LevelsPerStep: 3,
			HitBuffer:     16,
		},
		Hazards: HazardTuning{
			MinRadius:      35,
			MaxRadius:      60,
			MinSpeed:       0.02,
			MaxSpeed:       0.08,
			Spin:           0.0005,
			LargeRadius:    32,
			MinSplitRadius: 28,
			FragmentScale:  0.6,
			MinFragments:   2,
			MaxFragments:   3,
			MinScore:       10,
			SeparationSlop: 0.1,
		},
		Enemies: EnemyTuning{
			FromLevel:            3,
			LevelsPerExtra:       2,
			BaseSpeed:            0.12,
			SpeedPerLevel:        0.01,
			BaseFireInterval:     1600 * time.Millisecond,
			FireIntervalPerLevel: 80 * time.Millisecond,
			MinFireInterval:      600 * time.Millisecond,
			SpawnOffset:          40,
			EdgeMargin:           80,
			WobbleFrequency:      0.002,
			WobbleAmplitude:      0.08,
			LaserSpeed:           0.45,
			LaserLifespan:        800 * time.Millisecond,
			LaserMargin:          32,
			HitRadius:            22,
			PlayerHitRadius:      26,
			LaserHitRadius:       18,
			Score:                250,
			Offscreen:            EnemyWrap,
			DespawnMargin:        60,
		},
		Wells: WellTuning{
			FromLevel:      9,
			LevelsPerExtra: 4,
			Radius:         60,
			Pull:           0.0002,
			EdgeMargin:     120,
		},
		Levels: LevelTuning{
			BaseHazards:    5,
			CapLevel:       9,
			MultiplierStep: 0.25,
			SpeedStep:      0.05,
		},
		Demo: DemoTuning{
			MinScore: 500, MaxScore: 4500,
			MinLevel: 1, MaxLevel: 12,
			MinLives: 3, MaxLives: 10,
		},
		Effects: EffectTuning{
			ExplosionDuration: 600 * time.Millisecond,
			ExplosionRadius:   40,
		},
		Host: HostTuning{
			FPS:             60,
			AttractInterval: 10 * time.Second,
			HelpDuration:    2 * time.Second,
			ResultDuration:  3 * time.Second,
			NameTimeout:     15 * time.Second,
			MaxNameLength:   20,
			MaxTermWidth:    240,
			MaxTermHeight:   90,
		},
	}
}

// Validate rejects tuning that would break the simulation. It never clamps.
func (t Tuning) Validate() error {
	checks := []struct {
		ok   bool
		what string
	}{
		{t.World.Width > 0, "world.width must be > 0"},
		{t.World.Height > 0, "world.height must be > 0"},
		{t.Player.Size > 0, "player.size must be > 0"},
		{t.Player.Radius > 0, "player.radius must be > 0"},
		{t.Player.MaxSpeed > 0, "player.max_speed must be > 0"},
		{t.Player.Drag > 0 && t.Player.Drag <= 1, "player.drag must be in (0, 1]"},
		{t.Player.InitialLives > 0, "player.initial_lives must be > 0"},
		{t.Player.RespawnDelay >= 0, "player.respawn_delay must be >= 0"},
		{t.Player.Invulnerable >= 0, "player.invulnerable must be >= 0"},
		{t.Player.RespawnOpacity >= 0 && t.Player.RespawnOpacity <= 1, "player.respawn_opacity must be in [0, 1]"},
		{t.Weapons.LaserSpeed > 0, "weapons.laser_speed must be > 0"},
		{t.Weapons.BaseLifespan > 0, "weapons.base_lifespan must be > 0"},
		{t.Weapons.LevelsPerStep > 0, "weapons.levels_per_step must be > 0"},
		{t.Hazards.MinRadius > 0, "hazards.min_radius must be > 0"},
		{t.Hazards.MaxRadius >= t.Hazards.MinRadius, "hazards.max_radius must be >= min_radius"},
		{t.Hazards.MaxSpeed >= t.Hazards.MinSpeed, "hazards.max_speed must be >= min_speed"},
		{t.Hazards.FragmentScale > 0 && t.Hazards.FragmentScale < 1, "hazards.fragment_scale must be in (0, 1)"},
		{t.Hazards.MinFragments >= 0, "hazards.min_fragments must be >= 0"},
		{t.Hazards.MaxFragments >= t.Hazards.MinFragments, "hazards.max_fragments must be >= min_fragments"},
		{t.Enemies.LevelsPerExtra > 0, "enemies.levels_per_extra must be > 0"},
		{t.Enemies.MinFireInterval > 0, "enemies.min_fire_interval must be > 0"},
		{t.Enemies.LaserSpeed > 0, "enemies.laser_speed must be > 0"},
		{t.Enemies.Offscreen == EnemyWrap || t.Enemies.Offscreen == EnemyDespawn, `enemies.offscreen must be "wrap" or "despawn"`},
		{2*t.Enemies.EdgeMargin < t.World.Height, "enemies.edge_margin must leave room inside the field"},
		{t.Wells.LevelsPerExtra > 0, "wells.levels_per_extra must be > 0"},
		{t.Wells.Radius > 0, "wells.radius must be > 0"},
		{2*t.Wells.EdgeMargin < t.World.Width && 2*t.Wells.EdgeMargin < t.World.Height, "wells.edge_margin must leave room inside the field"},
		{t.Levels.BaseHazards > 0, "levels.base_hazards must be > 0"},
		{t.Levels.CapLevel > 0, "levels.cap_level must be > 0"},
		{t.Demo.MaxScore >= t.Demo.MinScore, "demo.max_score must be >= min_score"},
		{t.Demo.MinLevel > 0 && t.Demo.MaxLevel >= t.Demo.MinLevel, "demo level range must be positive and ordered"},
		{t.Demo.MinLives > 0 && t.Demo.MaxLives >= t.Demo.MinLives, "demo lives range must be positive and ordered"},
		{t.Effects.ExplosionDuration > 0, "effects.explosion_duration must be > 0"},
		{t.Host.FPS > 0, "host.fps must be > 0"},
		{t.Host.MaxNameLength > 0, "host.max_name_length must be > 0"},
		{t.Host.AttractInterval > 0 && t.Host.HelpDuration > 0, "host attract and help intervals must be > 0"},
		{t.Host.MaxTermWidth > 0 && t.Host.MaxTermHeight > 0, "host.max_term size must be > 0"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidTuning, c.what)
		}
	}
	return nil
}
