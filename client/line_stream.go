package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// LineStream reads chunks separated by a blank line from r and writes one
// choice per line to w, each prefixed with Prefix (">p1 " for a simulator
// child process, empty for a bare player stream).
//
// When Side is set the input is read as simulate-battle output: "update"
// chunks are delivered without their header, "sideupdate" chunks only when
// addressed to Side, and an "end" chunk ends the stream.
type LineStream struct {
	Prefix string
	Side   string

	scanner *bufio.Scanner
	mu      sync.Mutex
	w       io.Writer
}

func NewLineStream(r io.Reader, w io.Writer) *LineStream {
	scanner := bufio.NewScanner(r)
	// requests for full teams can exceed the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	scanner.Split(splitChunks)
	return &LineStream{scanner: scanner, w: w}
}

func (s *LineStream) Read(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		chunk := strings.Trim(s.scanner.Text(), "\r\n")
		if s.Side != "" {
			var done bool
			chunk, done = s.forSide(chunk)
			if done {
				return "", io.EOF
			}
		}
		if chunk != "" {
			return chunk, nil
		}
	}
}

// ForSide sets Side and the matching ">p1 " style choice prefix.
func (s *LineStream) ForSide(side string) {
	s.Side = side
	s.Prefix = ">" + side + " "
}

// forSide strips the simulate-battle envelope from chunk. It returns an
// empty chunk for output addressed to another side.
func (s *LineStream) forSide(chunk string) (string, bool) {
	header, body := splitHeader(chunk)
	switch header {
	case "update":
		return body, false
	case "sideupdate":
		side, rest := splitHeader(body)
		if side != s.Side {
			return "", false
		}
		return rest, false
	case "end":
		return "", true
	}
	return chunk, false
}

func splitHeader(chunk string) (header, rest string) {
	header, rest, _ = strings.Cut(chunk, "\n")
	return strings.TrimSuffix(header, "\r"), rest
}

func (s *LineStream) Write(ctx context.Context, choice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%s%s\n", s.Prefix, choice)
	return err
}

var (
	chunkSeparator     = []byte("\n\n")
	crlfChunkSeparator = []byte("\n\r\n")
)

// splitChunks is a bufio.SplitFunc yielding text between blank lines. A
// blank line may end in "\r\n".
func splitChunks(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i, sep := bytes.Index(data, chunkSeparator), chunkSeparator
	if j := bytes.Index(data, crlfChunkSeparator); j >= 0 && (i < 0 || j < i) {
		i, sep = j, crlfChunkSeparator
	}
	if i >= 0 {
		return i + len(sep), data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
