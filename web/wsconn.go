package web

import (
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn adapts a websocket connection to the byte stream the game
// protocol speaks over TCP: each Write becomes one binary message,
// Reads concatenate incoming messages. That lets one codec path serve
// both transports.
type wsConn struct {
	socket *websocket.Conn
	r      io.Reader // current incoming message, nil between messages
}

func newWSConn(socket *websocket.Conn) *wsConn {
	return &wsConn{socket: socket}
}

func (wc *wsConn) Read(p []byte) (int, error) {
	for {
		if wc.r == nil {
			_, r, err := wc.socket.NextReader()
			if err != nil {
				return 0, io.EOF
			}
			wc.r = r
		}
		n, err := wc.r.Read(p)
		if err == io.EOF {
			wc.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (wc *wsConn) Write(p []byte) (int, error) {
	if err := wc.socket.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (wc *wsConn) SetWriteDeadline(t time.Time) error {
	return wc.socket.SetWriteDeadline(t)
}

func (wc *wsConn) Close() error {
	return wc.socket.Close()
}
