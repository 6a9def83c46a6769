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

	"github.com/primefix/fixengine/fixwire"
)

// inputLoop is the sole consumer of inbound bytes and the sole owner of
// session state: verify, dispatch, the Logon handshake, resend handling
// and the inbound idle timer all run here, so none of it needs locking.
func (s *Session) inputLoop() {
	readCh := make(chan []byte)
	readErr := make(chan error, 1)
	go s.readBytes(readCh, readErr)

	idleTimer := time.NewTimer(s.cfg.inboundTimeout())
	defer idleTimer.Stop()

	for {
		select {
		case chunk, ok := <-readCh:
			if !ok {
				return
			}
			s.inboundBuf = append(s.inboundBuf, chunk...)
			s.drainFrames()
			resetTimer(idleTimer, s.cfg.inboundTimeout())
			s.state.InboundTimeoutCount = 0

		case err := <-readErr:
			s.disconnect(fmt.Errorf("transport read: %w", err))
			return

		case <-idleTimer.C:
			s.onInboundIdle()
			resetTimer(idleTimer, s.cfg.inboundTimeout())

		case ctrl := <-s.controlCh:
			s.handleControl(ctrl)

		case <-s.closed:
			return
		}
	}
}

func (s *Session) readBytes(out chan<- []byte, errs chan<- error) {
	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case out <- chunk:
			case <-s.closed:
				return
			}
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

// onInboundIdle fires the inbound-idle timer's escalation: a TestRequest
// up to the configured miss limit, then disconnect.
func (s *Session) onInboundIdle() {
	if s.state.InboundTimeoutCount >= s.cfg.InboundTimeoutLimit {
		s.disconnect(fmt.Errorf("no inbound traffic after %d test requests", s.state.InboundTimeoutCount))
		return
	}
	s.state.InboundTimeoutCount++
	testReqID := time.Now().UTC().Format("20060102-15:04:05.000")
	s.enqueueAdmin(s.newTestRequest(testReqID))
}

// drainFrames decodes as many complete frames as inboundBuf currently
// holds, advancing past garbled windows without emitting anything for
// them per spec.md §4.3.
func (s *Session) drainFrames() {
	for len(s.inboundBuf) > 0 {
		frame := s.dec.Decode(s.inboundBuf)
		switch frame.Status {
		case fixwire.StatusIncomplete:
			return
		case fixwire.StatusGarbled:
			s.inboundBuf = s.inboundBuf[frame.Consumed:]
		case fixwire.StatusReject:
			s.inboundBuf = s.inboundBuf[frame.Consumed:]
			s.handleFrameReject(frame)
		case fixwire.StatusOK:
			s.inboundBuf = s.inboundBuf[frame.Consumed:]
			s.onMessage(frame)
		}
	}
}

// handleFrameReject answers a frame that parsed its framing but failed
// schema-level validation. Per spec.md §7: if MsgSeqNum is unknown this
// is session-fatal (Logout + disconnect); otherwise it's Reject-worthy.
func (s *Session) handleFrameReject(frame fixwire.Frame) {
	if frame.MsgSeqNum == 0 {
		s.sendLogoutAndDisconnect("MsgSeqNumNotFound")
		return
	}
	s.enqueueAdmin(s.newReject(frame.MsgSeqNum, frame.MsgType, frame.Reject.Reason, frame.Reject.Tag))
	if frame.MsgType != msgTypeLogon && frame.MsgType != msgTypeSequenceReset {
		_ = s.state.Store.IncrNextTargetSeqNum()
	}
}

func (s *Session) sendLogoutAndDisconnect(text string) {
	s.enqueueAdmin(s.newLogout(text))
	s.disconnect(fmt.Errorf("session terminated: %s", text))
}
