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
)

// handleLogon runs the Logon handshake per spec.md §4.4: reset handling,
// CompID check, the acceptor's responding Logon, HeartBtInt
// adoption, and the NextExpectedMsgSeqNum optimization that lets a
// reconnecting pair skip an explicit ResendRequest at logon time.
func (s *Session) handleLogon(msg *fixschema.Message, seqNum int32) {
	if !s.cfg.Enabled || !s.cfg.LogonWindow.contains(time.Now()) {
		s.sendLogoutAndDisconnect("session disabled or outside logon window")
		return
	}

	// An initiator sends its own Logon synchronously before the input loop
	// ever runs (see Start), so a Logon reaching here with LogonSent still
	// false means the peer spoke first on a connection we initiated: an
	// invalid logon state.
	if s.cfg.Initiate && !s.state.LogonSent {
		s.sendLogoutAndDisconnect("unsolicited Logon received before sending our own")
		return
	}

	if s.cfg.CheckCompID {
		sender, _ := getString(msg.Header, tagSenderCompID)
		target, _ := getString(msg.Header, tagTargetCompID)
		if sender != s.cfg.ID.TargetCompID || target != s.cfg.ID.SenderCompID {
			s.disconnect(fmt.Errorf("CompID problem at logon"))
			return
		}
	}

	resetRequested, _ := getBool(msg.Body, tagResetSeqNumFlag)
	if resetRequested || s.cfg.ResetOnLogon {
		if err := s.state.Reset(); err != nil {
			s.log.Error().Err(err).Msg("reset on logon")
		}
	}

	expected := s.state.Store.NextTargetSeqNum()
	gapAtLogon := seqNum > expected
	if seqNum < expected {
		possDup, _ := getBool(msg.Header, tagPossDupFlag)
		if !possDup {
			s.sendLogoutAndDisconnect("MsgSeqNum too low at logon")
			return
		}
	}

	if heartBtInt, ok := getInt(msg.Body, tagHeartBtInt); ok {
		s.cfg.HeartBtInt = time.Duration(heartBtInt) * time.Second
	}

	s.state.LogonReceived = true
	if resetRequested {
		s.state.ResetReceived = true
	}

	if !s.state.LogonSent {
		s.enqueueAdmin(s.newLogon(resetRequested))
		s.state.LogonSent = true
	}

	if gapAtLogon {
		s.state.EnqueuePending(seqNum, msg)
		s.state.ResendRange = &fixsession.ResendRange{Begin: expected, End: seqNum - 1}
		s.enqueueAdmin(s.newResendRequest(expected, 0))
	} else {
		_ = s.state.Store.IncrNextTargetSeqNum()
	}

	if nextExpected, ok := getSeqNum(msg.Body, tagNextExpectedSeq); ok && s.cfg.EnableNextExpectedMsgSeqNum {
		nextSender := s.state.Store.NextSenderSeqNum()
		if nextExpected > nextSender {
			s.sendLogoutAndDisconnect("ReceivedNextExpectedMsgSeqNumTooHigh")
			return
		}
		if nextExpected <= nextSender-1 {
			s.handleResendRequest(nextExpected, nextSender-1)
		}
	}

	s.state.LastReceivedAt = time.Now()
	s.emit(Event{Kind: EventLogon, Message: msg})

	if !gapAtLogon {
		s.drainPending()
	}
}
