package loop

import (
	"time"

	"github.com/tomz197/figs-in-space/internal/game"
	"github.com/tomz197/figs-in-space/internal/input"
)

// startGame begins a normal session.
func (h *Host) startGame(in input.Frame) {
	stopTimer(&h.attractTimer)
	h.session.StartSession(game.ModeNormal, h.now)
	h.held = in.Held // the start key is not a shot
	h.setScreen(ScreenPlaying)
	h.logger.Info("game started", "session", h.session.SessionID())

	if !h.flags.AutoTest {
		h.showHelp(0)
	}
}

func (h *Host) updatePlaying(in input.Frame) {
	switch h.overlay {
	case OverlayHelp:
		if in.AnyKey && h.helpTimer == nil {
			h.closeOverlay()
		}
		return
	case OverlayQuit:
		if in.Quit {
			h.logger.Info("game abandoned", "session", h.session.SessionID(), "score", h.session.Score())
			h.toTitle()
		} else if in.AnyKey {
			h.closeOverlay()
		}
		return
	}

	if h.session.GameOver() {
		return
	}
	switch {
	case in.Quit || in.Escape:
		h.showQuit()
		return
	case in.Help:
		h.showHelp(0)
		return
	case in.Unbound && h.session.Alive():
		h.showHelp(h.t.Host.HelpDuration)
		return
	}

	h.forwardKeys(in.Held)
}

// forwardKeys turns the change in held keys into press and release events.
func (h *Host) forwardKeys(held input.KeySet) {
	for _, k := range []input.Key{input.KeyLeft, input.KeyRight, input.KeyUp, input.KeyDown, input.KeyFire} {
		was, is := h.held.Has(k), held.Has(k)
		switch {
		case is && !was:
			h.session.KeyDown(k, h.now)
		case was && !is:
			h.session.KeyUp(k, h.now)
		}
	}
	h.held = held
}

// showHelp pauses play under the help overlay. With a positive duration the
// overlay closes itself and ignores keys until then.
func (h *Host) showHelp(d time.Duration) {
	h.openOverlay(OverlayHelp)
	stopTimer(&h.helpTimer)
	if d > 0 {
		h.helpTimer = h.queue.Schedule(h.now+d, func() {
			h.helpTimer = nil
			if h.overlay == OverlayHelp {
				h.closeOverlay()
			}
		})
	}
}

func (h *Host) showQuit() {
	stopTimer(&h.helpTimer)
	h.openOverlay(OverlayQuit)
}

func (h *Host) openOverlay(o Overlay) {
	h.overlay = o
	h.session.Pause()
	h.session.ReleaseKeys(h.now)
	h.held = 0
}

// closeOverlay resumes play with every key released.
func (h *Host) closeOverlay() {
	stopTimer(&h.helpTimer)
	if h.overlay == OverlayNone {
		return
	}
	h.overlay = OverlayNone
	h.session.Resume()
	h.session.ReleaseKeys(h.now)
	h.held = 0
}
