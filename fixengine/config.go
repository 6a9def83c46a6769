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

// Package fixengine implements the FIX session protocol state machine:
// inbound verify/dispatch, the Logon handshake, resend/gap-fill, and the
// two idle timers, run as a pair of cooperating goroutines per session
// that communicate only by channel.
package fixengine

import (
	"io"
	"time"

	"github.com/primefix/fixengine/fixdict"
	"github.com/primefix/fixengine/fixsession"
)

// Transport is the minimal byte-stream contract a Session drives. A
// net.Conn satisfies it directly.
type Transport interface {
	io.Reader
	io.Writer
	Close() error
}

// Config holds everything about a session that's fixed for its lifetime:
// the negotiated identity and the policy knobs spec.md's Configuration
// section lists. Per-connection mutable state lives in fixsession.State.
type Config struct {
	Dict *fixdict.Dictionary
	ID   fixsession.ID

	Initiate bool

	HeartBtInt          time.Duration
	InboundPadding      time.Duration // slack added to HeartBtInt before the inbound-idle timer fires
	InboundTimeoutLimit int           // TestRequests allowed before disconnect

	CheckCompID                 bool
	CheckLatency                bool
	MaxLatency                  time.Duration
	ResetOnLogon                bool
	ResetOnLogout               bool
	ResetOnDisconnect           bool
	EnableNextExpectedMsgSeqNum bool
	SendRedundantResendRequests bool

	// Enabled gates whether this session will accept a Logon at all; a
	// disabled session refuses every inbound Logon exactly as if it were
	// outside LogonWindow. Most callers want this true.
	Enabled bool
	// LogonWindow, when non-nil, restricts the daily wall-clock span
	// during which an inbound Logon is accepted. A nil LogonWindow means
	// any time is acceptable.
	LogonWindow *LogonWindow
}

func (c Config) inboundTimeout() time.Duration {
	if c.InboundPadding > 0 {
		return c.HeartBtInt + c.InboundPadding
	}
	return c.HeartBtInt + c.HeartBtInt/2
}

// LogonWindow is a daily wall-clock span (e.g. 08:00-17:00), expressed as
// offsets from local midnight in Location. Start > End is read as a window
// that wraps past midnight.
type LogonWindow struct {
	Start, End time.Duration
	Location   *time.Location
}

// contains reports whether t falls inside w. A nil *LogonWindow always
// contains t, matching "no window configured".
func (w *LogonWindow) contains(t time.Time) bool {
	if w == nil {
		return true
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	offset := t.Sub(midnight)
	if w.Start <= w.End {
		return offset >= w.Start && offset < w.End
	}
	return offset >= w.Start || offset < w.End
}
