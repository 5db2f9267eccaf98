// Package protocol defines the wire format spoken between a game
// server and its clients: the connect handshake, the full state
// snapshot a new session receives, and the Event union that keeps
// every replica in sync afterwards.
package protocol

import "time"

// Version is bumped on any incompatible wire change. The server
// rejects a Hello carrying a different version.
const Version = 1

// Op discriminates the Event union. Exactly one variant per message.
type Op uint8

const (
	OpNone       Op = iota // heartbeat, no payload
	OpPlayerJoin           // ID + Player
	OpPlayerLeave          // ID
	OpChat                 // ID + Text
	OpChatSend             // Text (client to server only)
	OpAddLetter            // Char
	OpPopLetter            // no payload
	OpSubmit               // no payload (client to server only)
	OpNextPlayer           // ID + Phrase
	OpIncorrect            // no payload
	OpFail                 // ID of the player taking the next turn
)

func (op Op) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpPlayerJoin:
		return "player-join"
	case OpPlayerLeave:
		return "player-leave"
	case OpChat:
		return "chat"
	case OpChatSend:
		return "chat-send"
	case OpAddLetter:
		return "add-letter"
	case OpPopLetter:
		return "pop-letter"
	case OpSubmit:
		return "submit"
	case OpNextPlayer:
		return "next-player"
	case OpIncorrect:
		return "incorrect"
	case OpFail:
		return "fail"
	}
	return "unknown"
}

// Hello is the first message on every connection, client to server.
type Hello struct {
	V    int
	Name string
}

// ClientPlayer is the serializable projection of a player. It carries
// no connection handle and is what peers see of each other.
type ClientPlayer struct {
	ID    uint64
	Name  string
	Buf   string
	Lives int
}

// Settings are fixed at server construction and travel in the
// snapshot so replicas can render timers and life counts.
type Settings struct {
	MaxPlayers    int
	TimerLength   time.Duration
	TimeIncrease  time.Duration
	StartingLives int
}

// Snapshot is the complete game state sent once to a new session,
// immediately after its assigned id.
type Snapshot struct {
	Players   map[uint64]ClientPlayer
	Chat      []string
	Phrase    string
	Current   uint64
	TurnStart time.Time
	Settings  Settings
}

// Event is the closed StateChange union. Op selects the variant; the
// other fields are payload and only the ones the variant names are
// meaningful.
type Event struct {
	Op     Op
	ID     uint64       // subject player
	Player ClientPlayer // OpPlayerJoin
	Text   string       // OpChat, OpChatSend
	Char   rune         // OpAddLetter
	Phrase string       // OpNextPlayer
}
