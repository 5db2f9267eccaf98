package game

import (
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/gosher-studios/boom/protocol"
)

// Player is the server-side record for one connected session. The
// connection handle is owned exclusively by this record; it never
// appears in anything serialized to peers.
type Player struct {
	id          uint64
	name        string
	buf         string
	lives       int
	conn        Conn
	codec       *protocol.Codec
	chatLimiter *rate.Limiter
}

func (p *Player) clientView() protocol.ClientPlayer {
	return protocol.ClientPlayer{
		ID:    p.id,
		Name:  p.name,
		Buf:   p.buf,
		Lives: p.lives,
	}
}

func (p *Player) popRune() {
	if n := len(p.buf); n > 0 {
		_, size := utf8.DecodeLastRuneInString(p.buf)
		p.buf = p.buf[:n-size]
	}
}

// State is the single authoritative game state. Every read or write of
// its fields happens while holding the server's state lock, and the
// lock is released before any network send.
type State struct {
	players   map[uint64]*Player
	order     []uint64 // join order; drives turn rotation
	chat      []string
	phrase    string
	current   uint64
	turnStart time.Time
	used      map[string]struct{}
}

func newState(phrase string) *State {
	return &State{
		players: make(map[uint64]*Player),
		phrase:  phrase,
		used:    make(map[string]struct{}),
	}
}

func (st *State) addPlayer(p *Player) {
	st.players[p.id] = p
	st.order = append(st.order, p.id)
}

// removePlayer reports whether the player was still in the roster, so
// the two disconnect paths (read failure and broadcast write failure)
// cannot clean up the same session twice.
func (st *State) removePlayer(id uint64) bool {
	if _, ok := st.players[id]; !ok {
		return false
	}
	delete(st.players, id)
	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return true
}

// nextEligible returns the next player in roster order after `from`
// whose lives are above zero, wrapping past the end. `from` itself is
// considered last, so a sole surviving player rotates onto themselves.
// ok is false only when nobody is eligible.
func (st *State) nextEligible(from uint64) (uint64, bool) {
	if len(st.order) == 0 {
		return 0, false
	}
	start := -1
	for i, id := range st.order {
		if id == from {
			start = i
			break
		}
	}
	for i := 1; i <= len(st.order); i++ {
		id := st.order[(start+i)%len(st.order)]
		if st.players[id].lives > 0 {
			return id, true
		}
	}
	return 0, false
}

func (st *State) snapshot(settings protocol.Settings) protocol.Snapshot {
	players := make(map[uint64]protocol.ClientPlayer, len(st.players))
	for id, p := range st.players {
		players[id] = p.clientView()
	}
	chat := make([]string, len(st.chat))
	copy(chat, st.chat)
	return protocol.Snapshot{
		Players:   players,
		Chat:      chat,
		Phrase:    st.phrase,
		Current:   st.current,
		TurnStart: st.turnStart,
		Settings:  settings,
	}
}
