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

// Package fixsession holds the mutable per-session state and the message
// store contract the engine reads and writes through. A session owns
// exactly one State and one MessageStore; neither is shared across
// sessions, so nothing here needs internal synchronization — the engine
// runs a session's state mutations on a single goroutine.
package fixsession

import (
	"time"

	"github.com/primefix/fixengine/fixschema"
)

// ID identifies one logical FIX session by the standard triple plus an
// optional qualifier, matching the SessionID configuration surface.
type ID struct {
	BeginString  string
	SenderCompID string
	TargetCompID string
	Qualifier    string
}

func (id ID) String() string {
	s := id.BeginString + ":" + id.SenderCompID + "->" + id.TargetCompID
	if id.Qualifier != "" {
		s += ":" + id.Qualifier
	}
	return s
}

// ResendRange is an in-flight ResendRequest we're waiting to see satisfied.
type ResendRange struct {
	Begin int32
	End   int32 // 0 means "infinity", clamped by the caller before use
}

// State is every piece of mutable bookkeeping the engine maintains for one
// session, matching the substates and counters a running session needs.
type State struct {
	Enabled  bool
	Initiate bool // true for initiator, false for acceptor

	LogonSent     bool
	LogonReceived bool
	LogoutSent    bool
	ResetSent     bool
	ResetReceived bool

	HeartBtInt time.Duration

	LastSentAt     time.Time
	LastReceivedAt time.Time

	TestRequestCount int

	ResendRange *ResendRange

	// NextExpectedTargetSeqNum holds tag 789 from the last Logon we sent,
	// when enable-next-expected-msg-seq-num is configured.
	NextExpectedTargetSeqNum int32

	InboundTimeoutCount int

	// Pending holds inbound messages that arrived ahead of sequence,
	// keyed by MsgSeqNum, until the gap is filled or resent.
	Pending map[int32]*fixschema.Message

	Store MessageStore
}

// NewState returns a State with Pending initialized and store wired in.
func NewState(initiate bool, store MessageStore) *State {
	return &State{
		Enabled:  true,
		Initiate: initiate,
		Pending:  make(map[int32]*fixschema.Message),
		Store:    store,
	}
}

// LoggedOn reports whether both sides of the handshake have completed.
func (s *State) LoggedOn() bool {
	return s.LogonSent && s.LogonReceived
}

// Reset clears both sequence-number counters and flags back to a fresh
// session, per "sequence numbers start at 1 after any reset".
func (s *State) Reset() error {
	s.LogonSent = false
	s.LogonReceived = false
	s.LogoutSent = false
	s.ResetSent = false
	s.ResetReceived = false
	s.TestRequestCount = 0
	s.InboundTimeoutCount = 0
	s.ResendRange = nil
	s.Pending = make(map[int32]*fixschema.Message)
	return s.Store.Reset()
}

// EnqueuePending stores an out-of-order inbound message for later draining.
func (s *State) EnqueuePending(seqNum int32, msg *fixschema.Message) {
	s.Pending[seqNum] = msg
}

// TakePending removes and returns the pending message at seqNum, if any.
func (s *State) TakePending(seqNum int32) (*fixschema.Message, bool) {
	msg, ok := s.Pending[seqNum]
	if ok {
		delete(s.Pending, seqNum)
	}
	return msg, ok
}
