package game

import "time"

// LifeState is the player's position in the life cycle.
type LifeState uint8

const (
	LifeAlive        LifeState = iota
	LifeDead                   // waiting to respawn
	LifeInvulnerable           // respawned, cannot be hit yet
	LifeGameOver
)

var lifeNames = [...]string{"alive", "dead", "invulnerable", "game-over"}

func (l LifeState) String() string {
	if int(l) < len(lifeNames) {
		return lifeNames[l]
	}
	return "unknown"
}

// LifeState derives the player's state at the last tick.
func (s *Session) LifeState() LifeState {
	switch {
	case s.gameOver:
		return LifeGameOver
	case !s.alive:
		return LifeDead
	case s.now < s.invulnerableUntil:
		return LifeInvulnerable
	default:
		return LifeAlive
	}
}

// Alive reports whether the ship is in play.
func (s *Session) Alive() bool { return s.alive }

// InvulnerableUntil is the end of the current protection window.
func (s *Session) InvulnerableUntil() time.Duration { return s.invulnerableUntil }

// HitPlayer applies a fatal contact at now. Hits are ignored after game over,
// inside the invulnerability window and while the ship awaits respawn.
// It reports whether the hit counted.
func (s *Session) HitPlayer(now time.Duration) bool {
	if s.gameOver || now < s.invulnerableUntil || !s.alive {
		return false
	}

	p := s.t.Player
	s.addExplosion(s.ship.Pos, s.t.Effects.ExplosionRadius)
	s.lives = max(0, s.lives-1)
	s.ReleaseKeys(now)
	s.ship.Disable()
	s.alive = false

	respawnAt := now + p.RespawnDelay
	s.invulnerableUntil = respawnAt + p.Invulnerable
	s.logger.Debug("player hit", "at", now, "lives", s.lives)

	if s.lives == 0 {
		s.gameOver = true
		s.logger.Info("game over", "id", s.id, "score", s.score, "level", s.level)
		s.endTimer = s.sched.Schedule(now+p.GameOverDelay, s.endGame)
		return true
	}

	if s.respawnTimer != nil {
		s.respawnTimer.Stop()
	}
	s.respawnTimer = s.sched.Schedule(respawnAt, func() {
		s.respawn(respawnAt)
	})
	return true
}

func (s *Session) respawn(at time.Duration) {
	s.respawnTimer = nil
	if s.gameOver {
		return
	}
	p := s.t.Player
	s.ship.Respawn(s.world.Center(), at, p.Invulnerable, p.RespawnOpacity)
	s.invulnerableUntil = at + p.Invulnerable
	s.alive = true
	s.logger.Debug("player respawned", "at", at)
}

// endGame finishes the session. It runs at most once.
func (s *Session) endGame() {
	s.endTimer = nil
	if s.ended {
		return
	}
	s.ended = true
	s.gameOver = true
	s.override.SetEnabled(false)
	s.ship.Visible = false

	res := Result{Score: s.score, Level: s.level, Mode: s.mode, SessionID: s.id}
	s.logger.Info("session ended", "id", s.id, "mode", s.mode, "score", s.score, "level", s.level)
	if s.reporter != nil {
		s.reporter.GameOver(res)
	}
}

// Ended reports whether the final result has been reported.
func (s *Session) Ended() bool { return s.ended }

// Stop cancels pending respawn and end-of-game timers, as when the host
// abandons the session.
func (s *Session) Stop() {
	if s.respawnTimer != nil {
		s.respawnTimer.Stop()
		s.respawnTimer = nil
	}
	if s.endTimer != nil {
		s.endTimer.Stop()
		s.endTimer = nil
	}
}
