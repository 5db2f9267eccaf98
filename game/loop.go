package game

import (
	"time"

	"github.com/gosher-studios/boom/protocol"
)

// RunLoop is the single background task that advances turns on
// timeout, independent of any client action. It returns when stop is
// closed.
func (s *Server) RunLoop(stop <-chan struct{}) {
	ticks := s.tickers.Create(s.settings.TickInterval)
	for {
		select {
		case <-stop:
			return
		case now := <-ticks:
			s.tick(now)
		}
	}
}

// tick checks the turn deadline once. On timeout the current player
// loses a life and the turn rotates; otherwise a heartbeat goes out so
// silent dead connections still get discovered by a failed write.
func (s *Server) tick(now time.Time) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Lock()
	if len(s.state.players) == 0 {
		// keep the clock from accumulating while the room is empty
		s.state.turnStart = now
		s.mu.Unlock()
		return
	}
	if now.Sub(s.state.turnStart) <= s.settings.TimerLength {
		s.mu.Unlock()
		s.sweep(protocol.Event{Op: protocol.OpNone})
		return
	}

	if cur, ok := s.state.players[s.state.current]; ok && cur.lives > 0 {
		cur.lives--
	}
	target := s.state.current
	if next, ok := s.state.nextEligible(s.state.current); ok {
		s.state.current = next
		target = next
	}
	s.state.turnStart = now
	s.mu.Unlock()

	s.log.Info().Uint64("next", target).Msg("turn timed out")
	s.sweep(protocol.Event{Op: protocol.OpFail, ID: target})
}
