package protocol

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Codec reads and writes protocol values over one long-lived byte
// stream. gob is self-describing, so no extra framing exists beyond
// what the encoding itself provides.
//
// A Codec is not safe for concurrent writers; the owner serializes
// access (the server's replicator does this with its send lock).
type Codec struct {
	enc *gob.Encoder
	dec *gob.Decoder
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		enc: gob.NewEncoder(rw),
		dec: gob.NewDecoder(rw),
	}
}

func (c *Codec) WriteHello(name string) error {
	return c.enc.Encode(Hello{V: Version, Name: name})
}

func (c *Codec) ReadHello() (Hello, error) {
	var h Hello
	if err := c.dec.Decode(&h); err != nil {
		return Hello{}, err
	}
	if h.V != Version {
		return Hello{}, fmt.Errorf("protocol version mismatch: got %d, want %d", h.V, Version)
	}
	return h, nil
}

// WriteJoinReply sends the assigned player id first, the full
// snapshot second.
func (c *Codec) WriteJoinReply(id uint64, snap Snapshot) error {
	if err := c.enc.Encode(id); err != nil {
		return err
	}
	return c.enc.Encode(snap)
}

func (c *Codec) ReadJoinReply() (uint64, Snapshot, error) {
	var id uint64
	if err := c.dec.Decode(&id); err != nil {
		return 0, Snapshot{}, err
	}
	var snap Snapshot
	if err := c.dec.Decode(&snap); err != nil {
		return 0, Snapshot{}, err
	}
	return id, snap, nil
}

func (c *Codec) WriteEvent(ev Event) error {
	return c.enc.Encode(ev)
}

func (c *Codec) ReadEvent() (Event, error) {
	var ev Event
	err := c.dec.Decode(&ev)
	return ev, err
}
