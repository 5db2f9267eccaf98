package game

import "sync/atomic"

// idGen hands out player ids from a monotonically increasing counter
// starting at 1. Ids are never reused, so a departed player's id can
// never collide with a newcomer's for as long as the process lives.
type idGen struct {
	last atomic.Uint64
}

func (g *idGen) Next() uint64 {
	return g.last.Add(1)
}
