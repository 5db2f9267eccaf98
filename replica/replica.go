// Package replica maintains a client's local read-only copy of the
// game: the full snapshot received on connect, folded forward by the
// ordered event stream. It computes no game logic of its own.
package replica

import (
	"time"
	"unicode/utf8"

	"github.com/gosher-studios/boom/protocol"
)

// Replica is the local mirror. Apply is total over all event
// variants; unrecognized ones are no-ops, so it never falls behind the
// server on a protocol addition it does not understand.
type Replica struct {
	Players   map[uint64]protocol.ClientPlayer
	Chat      []string
	Phrase    string
	Current   uint64
	TurnStart time.Time
	Settings  protocol.Settings

	now func() time.Time
}

func New() *Replica {
	return &Replica{
		Players: make(map[uint64]protocol.ClientPlayer),
		now:     time.Now,
	}
}

// ApplySnapshot replaces the mirror with the full state a new session
// receives on connect.
func (r *Replica) ApplySnapshot(snap protocol.Snapshot) {
	r.Players = make(map[uint64]protocol.ClientPlayer, len(snap.Players))
	for id, p := range snap.Players {
		r.Players[id] = p
	}
	r.Chat = append([]string(nil), snap.Chat...)
	r.Phrase = snap.Phrase
	r.Current = snap.Current
	r.TurnStart = snap.TurnStart
	r.Settings = snap.Settings
}

// Deadline is when the current turn times out, for rendering.
func (r *Replica) Deadline() time.Time {
	return r.TurnStart.Add(r.Settings.TimerLength)
}

func (r *Replica) Apply(ev protocol.Event) {
	switch ev.Op {
	case protocol.OpPlayerJoin:
		r.Players[ev.ID] = ev.Player
		r.Chat = append(r.Chat, ev.Player.Name+" connected")

	case protocol.OpPlayerLeave:
		p, ok := r.Players[ev.ID]
		if !ok {
			return // applying the same leave twice is fine
		}
		delete(r.Players, ev.ID)
		r.Chat = append(r.Chat, p.Name+" disconnected")

	case protocol.OpChat:
		name := "?"
		if p, ok := r.Players[ev.ID]; ok {
			name = p.Name
		}
		r.Chat = append(r.Chat, name+": "+ev.Text)

	case protocol.OpAddLetter:
		if p, ok := r.Players[r.Current]; ok {
			p.Buf += string(ev.Char)
			r.Players[r.Current] = p
		}

	case protocol.OpPopLetter:
		if p, ok := r.Players[r.Current]; ok && len(p.Buf) > 0 {
			_, size := utf8.DecodeLastRuneInString(p.Buf)
			p.Buf = p.Buf[:len(p.Buf)-size]
			r.Players[r.Current] = p
		}

	case protocol.OpNextPlayer:
		r.Current = ev.ID
		r.Phrase = ev.Phrase
		r.TurnStart = r.TurnStart.Add(r.Settings.TimeIncrease)
		if p, ok := r.Players[ev.ID]; ok {
			p.Buf = ""
			r.Players[ev.ID] = p
		}

	case protocol.OpIncorrect:
		if p, ok := r.Players[r.Current]; ok {
			p.Buf = ""
			r.Players[r.Current] = p
		}

	case protocol.OpFail:
		if p, ok := r.Players[r.Current]; ok && p.Lives > 0 {
			p.Lives--
			r.Players[r.Current] = p
		}
		r.TurnStart = r.now()
		r.Current = ev.ID

	default:
		// OpNone heartbeats and anything unknown
	}
}
