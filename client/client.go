// Package client is the connection half of a player: handshake,
// local replica maintenance, and send helpers. Rendering and
// keystroke capture live elsewhere and consume this package through
// View and OnChange.
package client

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/gosher-studios/boom/protocol"
	"github.com/gosher-studios/boom/replica"
)

type Client struct {
	conn  io.ReadWriteCloser
	codec *protocol.Codec
	id    uint64

	mu  sync.Mutex
	rep *replica.Replica

	writeMu  sync.Mutex
	onChange func(protocol.Event)
}

// Dial connects to a game server over TCP and performs the handshake.
func Dial(addr, name string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c, err := New(conn, name)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.mu.Lock()
	c.rep.Chat = append(c.rep.Chat, "Connected to "+addr)
	c.mu.Unlock()
	return c, nil
}

// New performs the handshake on an established stream: name out, then
// assigned id and full snapshot in.
func New(conn io.ReadWriteCloser, name string) (*Client, error) {
	codec := protocol.NewCodec(conn)
	if err := codec.WriteHello(name); err != nil {
		return nil, fmt.Errorf("sending hello: %w", err)
	}
	id, snap, err := codec.ReadJoinReply()
	if err != nil {
		return nil, fmt.Errorf("reading join reply: %w", err)
	}
	rep := replica.New()
	rep.ApplySnapshot(snap)
	return &Client{
		conn:  conn,
		codec: codec,
		id:    id,
		rep:   rep,
	}, nil
}

// ID is the server-assigned player id for this session.
func (c *Client) ID() uint64 {
	return c.id
}

// OnChange registers a callback invoked after each event is folded
// into the replica. Set it before Run.
func (c *Client) OnChange(fn func(protocol.Event)) {
	c.onChange = fn
}

// View runs fn with the replica under lock, for rendering.
func (c *Client) View(fn func(*replica.Replica)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.rep)
}

// Run folds the event stream into the replica until the connection
// errors, which means the server is gone.
func (c *Client) Run() error {
	for {
		ev, err := c.codec.ReadEvent()
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.rep.Apply(ev)
		c.mu.Unlock()
		if c.onChange != nil {
			c.onChange(ev)
		}
	}
}

func (c *Client) send(ev protocol.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.codec.WriteEvent(ev)
}

func (c *Client) SendChat(text string) error {
	return c.send(protocol.Event{Op: protocol.OpChatSend, Text: text})
}

func (c *Client) SendLetter(r rune) error {
	return c.send(protocol.Event{Op: protocol.OpAddLetter, Char: r})
}

func (c *Client) SendBackspace() error {
	return c.send(protocol.Event{Op: protocol.OpPopLetter})
}

func (c *Client) SendSubmit() error {
	return c.send(protocol.Event{Op: protocol.OpSubmit})
}

func (c *Client) Close() error {
	return c.conn.Close()
}
