/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fixengine

import (
	"fmt"
	"time"

	"github.com/primefix/fixengine/fixschema"
	"github.com/primefix/fixengine/fixsession"
	"github.com/primefix/fixengine/fixwire"
	"github.com/primefix/fixengine/internal/sessionlog"
)

// outbound is one request to the output loop: either an admin message the
// engine generated internally, or a user message with a one-shot
// responder so the user may allow/suppress/gap-fill it before it's
// stamped and sent, per spec.md §4.4's outbound processing rule.
type outbound struct {
	msg      *fixschema.Message
	userSent bool
	replay   bool // already has MsgSeqNum/PossDupFlag/OrigSendingTime set; write verbatim
	decision chan sendDecision // nil for internally-generated admin messages
}

// SendDecision is the user's response to a surfaced outbound message.
type SendDecision int

const (
	DecisionAllow SendDecision = iota
	DecisionSuppress
	DecisionGapFill
)

type sendDecision struct{ decision SendDecision }

// control is an operator-API request, always served by the input loop
// since it's the sole owner of state.
type control struct {
	kind   controlKind
	arg    int32
	result chan controlResult
}

type controlKind int

const (
	ctrlIsActive controlKind = iota
	ctrlLogout
	ctrlDisconnect
	ctrlDisconnectWithLogout
	ctrlReset
	ctrlForceReset
	ctrlNextSenderSeqNum
	ctrlSetNextSenderSeqNum
)

type controlResult struct {
	active bool
	seqNum int32
	err    error
}

// Session is one actor-model FIX session: an input loop owns state and
// inbound verify/dispatch, an output loop owns the outbound queue, the
// outbound timer, and the sole transport write. They communicate only by
// channel, never by sharing state directly.
type Session struct {
	cfg      Config
	state    *fixsession.State
	conn     Transport
	dec      *fixwire.Decoder
	enc      *fixwire.Encoder
	log      *sessionlog.Logger
	registry *Registry

	outboundCh chan outbound
	controlCh  chan control
	events     chan Event

	inboundBuf []byte

	closed chan struct{}
}

// Event is surfaced to the user: a successfully logged-on session, an
// inbound application message, a Reject, or a fatal disconnect.
type Event struct {
	Kind    EventKind
	Message *fixschema.Message
	Err     error
}

type EventKind int

const (
	EventLogon EventKind = iota
	EventLogout
	EventApp
	EventReject
	EventDisconnect
)

// New returns a Session bound to conn, ready for Start.
func New(cfg Config, store fixsession.MessageStore, conn Transport, registry *Registry) *Session {
	return &Session{
		cfg:        cfg,
		state:      fixsession.NewState(cfg.Initiate, store),
		conn:       conn,
		dec:        fixwire.NewDecoder(cfg.Dict),
		enc:        fixwire.NewEncoder(cfg.Dict),
		log:        sessionlog.New(cfg.ID.String()),
		registry:   registry,
		outboundCh: make(chan outbound, 64),
		controlCh:  make(chan control),
		events:     make(chan Event, 64),
		closed:     make(chan struct{}),
	}
}

// Events returns the channel the user reads surfaced messages from.
func (s *Session) Events() <-chan Event { return s.events }

// Start launches the input and output loops and blocks until both exit.
// If the session is an initiator, it sends the initial Logon first.
func (s *Session) Start() {
	if s.registry != nil && !s.registry.Register(s.cfg.ID, s) {
		s.emit(Event{Kind: EventDisconnect, Err: fmt.Errorf("session %s already active", s.cfg.ID)})
		return
	}
	if s.registry != nil {
		defer s.registry.Unregister(s.cfg.ID, s)
	}

	outputDone := make(chan struct{})
	go func() {
		defer close(outputDone)
		s.outputLoop()
	}()

	if s.cfg.Initiate {
		s.enqueueAdmin(s.newLogon(s.cfg.ResetOnLogon))
		s.state.LogonSent = true
	}

	s.inputLoop()
	close(s.outboundCh)
	<-outputDone
	close(s.events)
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	case <-s.closed:
	}
}

func (s *Session) enqueueAdmin(msg *fixschema.Message) {
	if msg == nil {
		return
	}
	select {
	case s.outboundCh <- outbound{msg: msg}:
	case <-s.closed:
	}
}

// enqueueReplay sends msg verbatim to the output loop: it already carries
// the MsgSeqNum it originally went out under plus PossDupFlag/
// OrigSendingTime, so the output loop must not renumber, store, or count
// it against NextSenderSeqNum.
func (s *Session) enqueueReplay(msg *fixschema.Message) {
	if msg == nil {
		return
	}
	select {
	case s.outboundCh <- outbound{msg: msg, replay: true}:
	case <-s.closed:
	}
}

// SubmitUser enqueues a user-originated application message and returns
// without waiting for it to be sent. The caller may post a send decision
// on the returned channel; the output loop takes whatever decision is
// there when it reaches the message, and allow-send is the default if
// none has been posted.
func (s *Session) SubmitUser(msg *fixschema.Message) chan sendDecision {
	decision := make(chan sendDecision, 1)
	select {
	case s.outboundCh <- outbound{msg: msg, userSent: true, decision: decision}:
	case <-s.closed:
		close(decision)
	}
	return decision
}

func (s *Session) disconnect(reason error) {
	select {
	case <-s.closed:
		return
	default:
		close(s.closed)
	}
	_ = s.conn.Close()
	if reason != nil {
		s.emit(Event{Kind: EventDisconnect, Err: reason})
	} else {
		s.emit(Event{Kind: EventDisconnect})
	}
}

// outputLoop is the sole writer to the transport. It drains outboundCh,
// stamping MsgSeqNum/SendingTime on allow-sent messages, and fires a
// Heartbeat on its own idle timer per spec.md §4.4.
func (s *Session) outputLoop() {
	idle := time.NewTimer(s.cfg.HeartBtInt)
	defer idle.Stop()

	for {
		select {
		case ob, ok := <-s.outboundCh:
			if !ok {
				return
			}
			s.handleOutbound(ob)
			resetTimer(idle, s.cfg.HeartBtInt)

		case <-idle.C:
			s.writeAndStore(s.newHeartbeat(""))
			resetTimer(idle, s.cfg.HeartBtInt)

		case <-s.closed:
			return
		}
	}
}

func (s *Session) handleOutbound(ob outbound) {
	if ob.replay {
		s.writeReplay(ob.msg)
		return
	}
	if ob.userSent {
		decision := sendDecision{decision: DecisionAllow}
		if ob.decision != nil {
			select {
			case d, ok := <-ob.decision:
				if ok {
					decision = d
				}
			default:
			}
		}
		switch decision.decision {
		case DecisionSuppress:
			return
		case DecisionGapFill:
			next := s.state.Store.NextSenderSeqNum()
			s.writeAndStore(s.newGapFill(next + 1))
			return
		}
	}
	s.writeAndStore(ob.msg)
}

// writeAndStore stamps MsgSeqNum/SendingTime, serializes, persists to the
// store, then writes to the transport — store-before-transport per
// spec.md §5's ordering guarantee so a reconnecting peer can always be
// satisfied from the store.
func (s *Session) writeAndStore(msg *fixschema.Message) {
	if msg == nil {
		return
	}
	seqNum := s.state.Store.NextSenderSeqNum()
	setSeqNum(msg.Header, tagMsgSeqNum, seqNum)
	setTimestamp(msg.Header, tagSendingTime, time.Now().UTC())

	raw, err := s.enc.Encode(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("encode outbound message")
		return
	}
	if err := s.state.Store.Store(seqNum, raw); err != nil {
		s.log.Error().Err(err).Msg("persist outbound message")
	}
	if err := s.state.Store.IncrNextSenderSeqNum(); err != nil {
		s.log.Error().Err(err).Msg("increment sender seq num")
	}
	if _, err := s.conn.Write(raw); err != nil {
		s.disconnect(fmt.Errorf("transport write: %w", err))
		return
	}
	s.state.LastSentAt = time.Now()
}

// writeReplay encodes and writes a resend-replay message as-is: its
// MsgSeqNum is the original sequence number it was first sent under, so
// it must not be restamped, restored, or counted against the sender's
// next sequence number.
func (s *Session) writeReplay(msg *fixschema.Message) {
	raw, err := s.enc.Encode(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("encode replay message")
		return
	}
	if _, err := s.conn.Write(raw); err != nil {
		s.disconnect(fmt.Errorf("transport write: %w", err))
		return
	}
	s.state.LastSentAt = time.Now()
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
