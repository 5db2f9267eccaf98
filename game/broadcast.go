package game

import (
	"time"

	"github.com/gosher-studios/boom/protocol"
)

// sweep delivers ev to every connected session. The caller holds
// sendMu, acquired before the state mutation ev announces, so whole
// sweeps are serialized and all receivers observe events in the exact
// order the state lock applied them. A failed write marks that
// session as disconnected without interrupting delivery to the rest;
// after the sweep each casualty is pruned from the roster and a
// PlayerLeave is re-broadcast so surviving replicas forget them.
//
// The state lock is only held to copy the roster, never across a
// write.
func (s *Server) sweep(ev protocol.Event) {
	s.mu.Lock()
	targets := make([]*Player, 0, len(s.state.order))
	for _, id := range s.state.order {
		targets = append(targets, s.state.players[id])
	}
	s.mu.Unlock()

	var dropped []*Player
	for _, p := range targets {
		p.conn.SetWriteDeadline(time.Now().Add(s.settings.WriteTimeout))
		if err := p.codec.WriteEvent(ev); err != nil {
			dropped = append(dropped, p)
		}
	}

	for _, p := range dropped {
		removed, next, advanced := s.detach(p)
		p.conn.Close()
		if !removed {
			continue
		}
		s.log.Info().Uint64("player_id", p.id).Str("name", p.name).Msg("player disconnected")
		s.sweep(protocol.Event{Op: protocol.OpPlayerLeave, ID: p.id})
		if advanced {
			s.sweep(protocol.Event{Op: protocol.OpFail, ID: next})
		}
	}
}
