package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"showdown-agent/protocol"
)

const (
	DefaultServerURL = "wss://sim.psim.us/showdown/websocket"
)

type ShowdownClient struct {
	Conn   *websocket.Conn
	logger logrus.FieldLogger
}

func NewShowdownClient(serverURL string, logger logrus.FieldLogger) (*ShowdownClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	logger.WithField("url", u.String()).Info("connecting")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	return &ShowdownClient{Conn: c, logger: logger}, nil
}

func (sc *ShowdownClient) Close() error {
	return sc.Conn.Close()
}

func (sc *ShowdownClient) Send(message string) error {
	sc.logger.WithField("message", message).Debug("sending")
	return sc.Conn.WriteMessage(websocket.TextMessage, []byte(message))
}

func (sc *ShowdownClient) JoinRoom(roomID string) error {
	return sc.Send(fmt.Sprintf("|/join %s", roomID))
}

// RoomStream returns a stream of the messages addressed to roomID that
// answers with /choose commands for that room.
func (sc *ShowdownClient) RoomStream(roomID string) *RoomStream {
	return &RoomStream{client: sc, room: roomID}
}

// RoomStream adapts one battle room of a websocket connection to the agent's
// chunk stream. Each websocket message is one chunk.
type RoomStream struct {
	client    *ShowdownClient
	room      string
	requestID int
}

func (s *RoomStream) Read(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_, message, err := s.client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", fmt.Errorf("read websocket: %w", err)
		}
		chunk := string(message)
		if !s.addressed(chunk) {
			continue
		}
		s.trackRequest(chunk)
		return chunk, nil
	}
}

// Write sends the choice tagged with the latest request id so the server can
// discard stale answers.
func (s *RoomStream) Write(ctx context.Context, choice string) error {
	return s.client.Send(fmt.Sprintf("%s|/choose %s|%d", s.room, choice, s.requestID))
}

func (s *RoomStream) addressed(chunk string) bool {
	header, _, _ := strings.Cut(chunk, "\n")
	return header == ">"+s.room
}

func (s *RoomStream) trackRequest(chunk string) {
	for _, raw := range protocol.SplitLines(chunk) {
		line := protocol.Classify(raw)
		if line.Kind != protocol.KindRequest || line.Rest == "" {
			continue
		}
		// decode failures are reported by the agent, which sees the same line
		if req, err := protocol.DecodeRequest(line.Rest); err == nil {
			s.requestID = req.RequestID
		}
	}
}
