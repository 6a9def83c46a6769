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

import "fmt"

// handleControl answers one operator-API request. It always runs on the
// input loop since that's the sole owner of s.state.
func (s *Session) handleControl(c control) {
	var res controlResult
	switch c.kind {
	case ctrlIsActive:
		res.active = s.state.LoggedOn()

	case ctrlLogout:
		s.enqueueAdmin(s.newLogout(""))
		s.state.LogoutSent = true

	case ctrlDisconnect:
		s.disconnect(fmt.Errorf("disconnected by operator"))

	case ctrlDisconnectWithLogout:
		s.enqueueAdmin(s.newLogout(""))
		s.state.LogoutSent = true
		s.disconnect(fmt.Errorf("disconnected by operator"))

	case ctrlReset:
		if s.state.LoggedOn() {
			res.err = fmt.Errorf("session is active")
			break
		}
		res.err = s.state.Reset()

	case ctrlForceReset:
		res.err = s.state.Reset()

	case ctrlNextSenderSeqNum:
		res.seqNum = s.state.Store.NextSenderSeqNum()

	case ctrlSetNextSenderSeqNum:
		res.err = s.state.Store.SetNextSenderSeqNum(c.arg)
	}

	if c.result != nil {
		c.result <- res
	}
}

func (s *Session) request(kind controlKind, arg int32) controlResult {
	result := make(chan controlResult, 1)
	select {
	case s.controlCh <- control{kind: kind, arg: arg, result: result}:
	case <-s.closed:
		return controlResult{err: fmt.Errorf("session not active")}
	}
	select {
	case res := <-result:
		return res
	case <-s.closed:
		return controlResult{err: fmt.Errorf("session not active")}
	}
}

// IsActive reports whether the session is currently logged on.
func (s *Session) IsActive() bool { return s.request(ctrlIsActive, 0).active }

// Logout sends a Logout to the peer without closing the transport; the
// session ends once the peer's confirming Logout arrives.
func (s *Session) Logout() { s.request(ctrlLogout, 0) }

// Disconnect closes the transport immediately without an exchanged
// Logout.
func (s *Session) Disconnect() { s.request(ctrlDisconnect, 0) }

// DisconnectWithLogout sends a Logout and then closes the transport
// without waiting for the peer's reply.
func (s *Session) DisconnectWithLogout() { s.request(ctrlDisconnectWithLogout, 0) }

// Reset clears session state and sequence numbers back to 1. It fails
// while the session is logged on.
func (s *Session) Reset() error { return s.request(ctrlReset, 0).err }

// ForceReset is Reset without the logged-on check: it clears state and
// sequence numbers even while the session is active.
func (s *Session) ForceReset() error { return s.request(ctrlForceReset, 0).err }

// NextSenderMsgSeqNum returns the sequence number the next outbound
// message will be stamped with.
func (s *Session) NextSenderMsgSeqNum() int32 { return s.request(ctrlNextSenderSeqNum, 0).seqNum }

// SetNextSenderMsgSeqNum forces the next outbound sequence number.
func (s *Session) SetNextSenderMsgSeqNum(n int32) error {
	return s.request(ctrlSetNextSenderSeqNum, n).err
}
