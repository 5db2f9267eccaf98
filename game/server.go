package game

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gosher-studios/boom/protocol"
	"github.com/gosher-studios/boom/words"
)

// Conn is the byte stream a session owns. *net.TCPConn satisfies it,
// as does the websocket adapter in the web package and net.Pipe in
// tests. The write deadline bounds how long one slow receiver can
// stall a broadcast sweep.
type Conn interface {
	io.ReadWriteCloser
	SetWriteDeadline(t time.Time) error
}

// Settings are fixed at construction.
type Settings struct {
	MaxPlayers    int
	TimerLength   time.Duration
	TimeIncrease  time.Duration
	StartingLives int
	TickInterval  time.Duration
	WriteTimeout  time.Duration
}

// chat limiter parameters, per player
const (
	chatRate  = rate.Limit(1)
	chatBurst = 5
)

// Server owns the authoritative game state and everything that
// mutates it: one session goroutine per connection plus one game
// loop. All state access goes through mu; all outbound writes go
// through sendMu, never while mu is held.
type Server struct {
	id       string
	settings Settings
	dict     *words.Dictionary
	phrases  *words.PhrasePool
	log      zerolog.Logger
	tickers  TickerCreator

	ids idGen

	mu    sync.Mutex
	state *State

	// sendMu serializes broadcasts and join snapshots. Lock order is
	// sendMu then mu: every mutate-then-notify path holds sendMu from
	// before it touches state until after the sweep, so receivers
	// observe events in the exact order the state lock applied them
	// and a snapshot is never interleaved with the stream that
	// follows it. mu is still released before any network write.
	sendMu sync.Mutex
}

func New(settings Settings, dict *words.Dictionary, phrases *words.PhrasePool, log zerolog.Logger) *Server {
	if settings.TickInterval <= 0 {
		settings.TickInterval = 10 * time.Millisecond
	}
	if settings.WriteTimeout <= 0 {
		settings.WriteTimeout = 5 * time.Second
	}
	s := &Server{
		id:       uuid.NewString(),
		settings: settings,
		dict:     dict,
		phrases:  phrases,
		state:    newState(phrases.Random()),
		tickers:  NewTickerGen(),
	}
	s.log = log.With().Str("server_id", s.id).Logger()
	return s
}

func (s *Server) ID() string {
	return s.id
}

func (s *Server) wireSettings() protocol.Settings {
	return protocol.Settings{
		MaxPlayers:    s.settings.MaxPlayers,
		TimerLength:   s.settings.TimerLength,
		TimeIncrease:  s.settings.TimeIncrease,
		StartingLives: s.settings.StartingLives,
	}
}

// Serve accepts connections until the listener is closed. Accept
// failures are never fatal; they are logged and the loop continues.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info().Str("addr", l.Addr().String()).Msg("listening")
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}
		go s.HandleConn(conn)
	}
}

// HandleConn runs one session: handshake, registration, then the
// inbound read loop until the connection dies.
func (s *Server) HandleConn(conn Conn) {
	codec := protocol.NewCodec(conn)

	hello, err := codec.ReadHello()
	if err != nil {
		s.log.Debug().Err(err).Msg("handshake failed")
		conn.Close()
		return
	}
	name := strings.TrimSpace(hello.Name)
	if name == "" {
		s.log.Debug().Err(ErrNameMissing).Msg("rejecting connection")
		conn.Close()
		return
	}

	p := &Player{
		id:          s.ids.Next(),
		name:        name,
		lives:       s.settings.StartingLives,
		conn:        conn,
		codec:       codec,
		chatLimiter: rate.NewLimiter(chatRate, chatBurst),
	}

	s.sendMu.Lock()
	s.mu.Lock()
	if len(s.state.players) >= s.settings.MaxPlayers {
		s.mu.Unlock()
		s.sendMu.Unlock()
		s.log.Info().Err(ErrServerFull).Str("name", name).Msg("rejecting connection")
		conn.Close()
		return
	}
	if len(s.state.players) == 0 {
		// first player opens the game holding the turn
		s.state.current = p.id
		s.state.turnStart = time.Now()
	}
	snap := s.state.snapshot(s.wireSettings())
	conn.SetWriteDeadline(time.Now().Add(s.settings.WriteTimeout))
	if err := codec.WriteJoinReply(p.id, snap); err != nil {
		s.mu.Unlock()
		s.sendMu.Unlock()
		s.log.Debug().Err(err).Str("name", name).Msg("snapshot send failed")
		conn.Close()
		return
	}
	s.state.addPlayer(p)
	view := p.clientView()
	s.mu.Unlock()

	s.log.Info().Uint64("player_id", p.id).Str("name", name).Msg("player connected")
	s.sweep(protocol.Event{Op: protocol.OpPlayerJoin, ID: p.id, Player: view})
	s.sendMu.Unlock()

	s.readLoop(p)
}

// readLoop applies inbound actions until a read or decode error,
// which is treated as a disconnect and deregisters the session
// directly rather than waiting for the next failed broadcast write.
func (s *Server) readLoop(p *Player) {
	for {
		ev, err := p.codec.ReadEvent()
		if err != nil {
			s.dropSession(p, err)
			return
		}
		switch ev.Op {
		case protocol.OpChatSend:
			s.handleChat(p, ev.Text)
		case protocol.OpAddLetter:
			s.handleAddLetter(p, ev.Char)
		case protocol.OpPopLetter:
			s.handlePopLetter(p)
		case protocol.OpSubmit:
			s.handleSubmit(p)
		default:
			// nothing else is valid from a client
		}
	}
}

func (s *Server) handleChat(p *Player, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if !p.chatLimiter.Allow() {
		s.log.Debug().Uint64("player_id", p.id).Msg("chat throttled")
		return
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Lock()
	s.state.chat = append(s.state.chat, p.name+": "+text)
	s.mu.Unlock()
	s.log.Info().Str("name", p.name).Str("text", text).Msg("chat")
	s.sweep(protocol.Event{Op: protocol.OpChat, ID: p.id, Text: text})
}

func (s *Server) handleAddLetter(p *Player, c rune) {
	if !unicode.IsLetter(c) {
		return
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Lock()
	if s.state.current != p.id || p.lives == 0 {
		s.mu.Unlock()
		return
	}
	p.buf += string(c)
	s.mu.Unlock()
	s.sweep(protocol.Event{Op: protocol.OpAddLetter, Char: c})
}

func (s *Server) handlePopLetter(p *Player) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Lock()
	if s.state.current != p.id || p.lives == 0 {
		s.mu.Unlock()
		return
	}
	p.popRune()
	s.mu.Unlock()
	s.sweep(protocol.Event{Op: protocol.OpPopLetter})
}

func (s *Server) handleSubmit(p *Player) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Lock()
	if s.state.current != p.id || p.lives == 0 {
		s.mu.Unlock()
		return
	}
	word := p.buf
	_, usedBefore := s.state.used[word]
	if usedBefore || !strings.Contains(word, s.state.phrase) || !s.dict.Contains(word) {
		p.buf = ""
		s.mu.Unlock()
		s.sweep(protocol.Event{Op: protocol.OpIncorrect})
		return
	}
	s.state.used[word] = struct{}{}
	phrase := s.phrases.Random()
	s.state.phrase = phrase
	// the lives gate above makes the submitter eligible, so the turn
	// always lands on a live roster member
	next := p.id
	if n, ok := s.state.nextEligible(p.id); ok {
		next = n
	}
	s.state.current = next
	s.state.players[next].buf = ""
	s.state.turnStart = s.state.turnStart.Add(s.settings.TimeIncrease)
	s.mu.Unlock()
	s.log.Info().Uint64("player_id", p.id).Str("word", word).Uint64("next", next).Msg("word accepted")
	s.sweep(protocol.Event{Op: protocol.OpNextPlayer, ID: next, Phrase: phrase})
}

// dropSession removes a player after a failed read. If they held the
// turn it advances to the next eligible player, keeping the turn
// pointer on a live player.
func (s *Server) dropSession(p *Player, cause error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	removed, next, advanced := s.detach(p)
	p.conn.Close()
	if !removed {
		return
	}
	s.log.Info().Uint64("player_id", p.id).Str("name", p.name).Err(cause).Msg("player disconnected")
	s.sweep(protocol.Event{Op: protocol.OpPlayerLeave, ID: p.id})
	if advanced {
		s.sweep(protocol.Event{Op: protocol.OpFail, ID: next})
	}
}

// detach removes p from the roster under the state lock and computes
// the turn handoff when p was the current player.
func (s *Server) detach(p *Player) (removed bool, next uint64, advanced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, hasNext := s.state.nextEligible(p.id)
	removed = s.state.removePlayer(p.id)
	if !removed {
		return false, 0, false
	}
	if s.state.current != p.id {
		return true, 0, false
	}
	if hasNext && next != p.id {
		s.state.current = next
		s.state.turnStart = time.Now()
		return true, next, true
	}
	// nobody eligible is left; park the pointer on a roster member so
	// it never names a departed player
	s.state.current = 0
	if len(s.state.order) > 0 {
		s.state.current = s.state.order[0]
	}
	s.state.turnStart = time.Now()
	return true, 0, false
}

// PlayerStats is the ops view of one player.
type PlayerStats struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Lives   int    `json:"lives"`
	Current bool   `json:"current"`
}

// Stats is what the ops endpoint reports.
type Stats struct {
	ServerID   string        `json:"serverId"`
	MaxPlayers int           `json:"maxPlayers"`
	Phrase     string        `json:"phrase"`
	Players    []PlayerStats `json:"players"`
}

func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Stats{
		ServerID:   s.id,
		MaxPlayers: s.settings.MaxPlayers,
		Phrase:     s.state.phrase,
		Players:    make([]PlayerStats, 0, len(s.state.order)),
	}
	for _, id := range s.state.order {
		p := s.state.players[id]
		stats.Players = append(stats.Players, PlayerStats{
			ID:      p.id,
			Name:    p.name,
			Lives:   p.lives,
			Current: s.state.current == p.id,
		})
	}
	return stats
}
