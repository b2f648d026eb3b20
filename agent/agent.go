// Package agent drives one player of a single-active-slot battle: it reads
// protocol chunks, decides once per turn when both a battle update and a
// request have arrived, and writes the chosen action back.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"showdown-agent/data"
	"showdown-agent/game"
	"showdown-agent/parser"
	"showdown-agent/protocol"
	"showdown-agent/storage"
)

// Stream is the player's side of the simulator connection. Read returns
// io.EOF once the simulator closes the stream.
type Stream interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, choice string) error
}

type Option func(*Agent)

func WithObserver(o LineObserver) Option {
	return func(a *Agent) {
		if o != nil {
			a.observer = o
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithRecorder(r storage.Recorder) Option {
	return func(a *Agent) { a.recorder = r }
}

// WithUpdateCommands replaces the set of commands that count as a battle
// update.
func WithUpdateCommands(cmds protocol.CommandSet) Option {
	return func(a *Agent) { a.classifier = protocol.NewClassifier(cmds) }
}

func WithDex(dex *data.Dex) Option {
	return func(a *Agent) { a.dex = dex }
}

func WithBattleID(id string) Option {
	return func(a *Agent) { a.battleID = id }
}

type Agent struct {
	stream     Stream
	policy     Policy
	classifier *protocol.Classifier
	observer   LineObserver
	recorder   storage.Recorder
	logger     logrus.FieldLogger
	dex        *data.Dex
	battleID   string

	log     []string
	state   *game.BattleState
	request *game.Request
	phase   Phase
}

func New(stream Stream, policy Policy, opts ...Option) (*Agent, error) {
	if isNilPolicy(policy) {
		return nil, ErrUnsupportedPolicy
	}
	if stream == nil {
		return nil, errors.New("agent: no stream supplied")
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	a := &Agent{
		stream:     stream,
		policy:     policy,
		classifier: protocol.NewClassifier(nil),
		observer:   nopObserver{},
		logger:     quiet,
		state:      game.NewBattleState(),
		phase:      NeedBoth,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run processes chunks until the stream ends. A closed stream is a clean
// shutdown and returns nil.
func (a *Agent) Run(ctx context.Context) error {
	for {
		chunk, err := a.stream.Read(ctx)
		if errors.Is(err, io.EOF) {
			a.logger.WithField("battle", a.battleID).Info("stream closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read chunk: %w", err)
		}
		if err := a.Receive(ctx, chunk); err != nil {
			return err
		}
	}
}

// Receive classifies every line of chunk and then runs at most one decision
// cycle. An |error| line stops the chunk and is returned as *ProtocolError.
func (a *Agent) Receive(ctx context.Context, chunk string) error {
	for _, raw := range protocol.SplitLines(chunk) {
		if err := a.receiveLine(raw); err != nil {
			return err
		}
	}
	if a.phase != Ready {
		return nil
	}
	return a.decide(ctx)
}

func (a *Agent) receiveLine(raw string) error {
	a.observer.ObserveLine(raw)

	line := a.classifier.Classify(raw)
	switch line.Kind {
	case protocol.KindError:
		return &ProtocolError{Message: line.Rest}
	case protocol.KindRequest:
		req, err := protocol.DecodeRequest(line.Rest)
		if err != nil {
			return err
		}
		a.request = req
		a.phase = a.phase.withRequest()
	case protocol.KindBattleUpdate:
		a.phase = a.phase.withUpdate()
	}

	a.log = append(a.log, raw)
	parser.ProcessLine(a.state, a.dex, raw)
	return nil
}

func (a *Agent) decide(ctx context.Context) error {
	req := a.request
	a.phase = NeedBoth

	logger := a.logger.WithFields(logrus.Fields{
		"battle": a.battleID,
		"turn":   a.state.Turn,
		"rqid":   req.RequestID,
	})
	if req.Wait {
		logger.Debug("waiting on opponent")
		return nil
	}

	space := game.ActionSpace(req)
	action, err := a.policy.Act(ctx, a.View(), space)
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if !game.Contains(space, action) {
		return &InvalidActionError{Action: action, ActionSpace: space}
	}

	if err := a.stream.Write(ctx, action); err != nil {
		return fmt.Errorf("write choice: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"action":  action,
		"choices": len(space),
		"state":   parser.Summary(a.state),
	}).Info("chose action")

	if a.recorder != nil {
		d := &storage.Decision{
			BattleID:    a.battleID,
			Turn:        a.state.Turn,
			RequestID:   req.RequestID,
			ActionSpace: space,
			Action:      action,
		}
		if err := a.recorder.Record(ctx, d); err != nil {
			return fmt.Errorf("record decision: %w", err)
		}
	}
	return nil
}

// View returns the policy-facing view of the battle so far.
func (a *Agent) View() View {
	return View{
		BattleID: a.battleID,
		Log:      a.log[:len(a.log):len(a.log)],
		State:    a.state,
		Request:  a.request,
	}
}

// Log returns a copy of every line received so far.
func (a *Agent) Log() []string {
	return append([]string(nil), a.log...)
}

func (a *Agent) Phase() Phase { return a.phase }

// Request returns the latest request snapshot, or nil before the first one.
func (a *Agent) Request() *game.Request { return a.request }

func (a *Agent) State() *game.BattleState { return a.state }
