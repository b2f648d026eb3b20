package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStream_ReadsChunks(t *testing.T) {
	input := "|init|battle\n|title|a vs b\n\n\n\n|switch|p1a: A|A|100/100\n|request|{}\n\n|win|a"
	s := NewLineStream(strings.NewReader(input), io.Discard)
	ctx := context.Background()

	var chunks []string
	for {
		chunk, err := s.Read(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}

	assert.Equal(t, []string{
		"|init|battle\n|title|a vs b",
		"|switch|p1a: A|A|100/100\n|request|{}",
		"|win|a",
	}, chunks)
}

func TestLineStream_Write(t *testing.T) {
	var out bytes.Buffer
	s := NewLineStream(strings.NewReader(""), &out)
	s.Prefix = ">p1 "

	require.NoError(t, s.Write(context.Background(), "move 1"))
	require.NoError(t, s.Write(context.Background(), "switch 3"))
	assert.Equal(t, ">p1 move 1\n>p1 switch 3\n", out.String())
}

func readAll(t *testing.T, s *LineStream) []string {
	t.Helper()
	var chunks []string
	for {
		chunk, err := s.Read(context.Background())
		if err == io.EOF {
			return chunks
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
}

func TestLineStream_ForSideFollowsOwnRequests(t *testing.T) {
	input := strings.Join([]string{
		"sideupdate\np1\n|request|{\"rqid\":1}",
		"sideupdate\np2\n|request|{\"rqid\":2}",
		"update\n|\n|switch|p1a: A|A|100/100\n|switch|p2a: X|X|100/100\n|turn|1",
		"sideupdate\np2\n|error|[Invalid choice] not your turn",
		"end\n{\"winner\":\"a\"}",
		"update\n|turn|2",
	}, "\n\n") + "\n\n"
	var out bytes.Buffer
	s := NewLineStream(strings.NewReader(input), &out)
	s.ForSide("p1")

	assert.Equal(t, []string{
		"|request|{\"rqid\":1}",
		"|\n|switch|p1a: A|A|100/100\n|switch|p2a: X|X|100/100\n|turn|1",
	}, readAll(t, s))

	require.NoError(t, s.Write(context.Background(), "move 1"))
	assert.Equal(t, ">p1 move 1\n", out.String())
}

func TestLineStream_WithoutSidePassesEnvelopeThrough(t *testing.T) {
	s := NewLineStream(strings.NewReader("sideupdate\np2\n|request|{}"), io.Discard)
	assert.Equal(t, []string{"sideupdate\np2\n|request|{}"}, readAll(t, s))
}

func TestLineStream_CRLFSeparators(t *testing.T) {
	input := "|init|battle\r\n|teampreview\r\n\r\n|request|{}\r\n\r\n"
	s := NewLineStream(strings.NewReader(input), io.Discard)
	assert.Equal(t, []string{"|init|battle\r\n|teampreview", "|request|{}"}, readAll(t, s))
}

func TestLineStream_CancelledContext(t *testing.T) {
	s := NewLineStream(strings.NewReader("|turn|1"), io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newShowdownServer sends messages to the client, then records what the
// client sends until it closes.
func newShowdownServer(t *testing.T, messages []string, received chan<- string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(received)
				return
			}
			received <- string(msg)
		}
	}))
}

func TestRoomStream(t *testing.T) {
	room := "battle-gen7randombattle-1"
	received := make(chan string, 4)
	srv := newShowdownServer(t, []string{
		"|updateuser|guest|0|1",
		">battle-other\n|turn|9",
		">" + room + "\n|init|battle\n|switch|p2a: X|X|100/100",
		">" + room + "\n|request|{\"wait\":false,\"rqid\":12}",
	}, received)
	defer srv.Close()

	sc, err := NewShowdownClient("ws"+strings.TrimPrefix(srv.URL, "http"), quietLogger())
	require.NoError(t, err)

	stream := sc.RoomStream(room)
	ctx := context.Background()

	chunk, err := stream.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, ">"+room+"\n|init|battle\n|switch|p2a: X|X|100/100", chunk)

	chunk, err = stream.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, chunk, "|request|")

	require.NoError(t, sc.JoinRoom(room))
	require.NoError(t, stream.Write(ctx, "move 2"))
	assert.Equal(t, "|/join "+room, <-received)
	assert.Equal(t, room+"|/choose move 2|12", <-received)

	require.NoError(t, sc.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_, err = stream.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, sc.Close())
}
