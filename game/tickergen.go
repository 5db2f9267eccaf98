package game

import "time"

// TickerCreator abstracts time.Ticker so the game loop can be driven
// by hand-fed ticks in tests.
type TickerCreator interface {
	Create(d time.Duration) <-chan time.Time
}

type tickerGen struct{}

func (tickerGen) Create(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

func NewTickerGen() TickerCreator {
	return tickerGen{}
}
