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
	"time"

	"github.com/primefix/fixengine/fixschema"
	"github.com/primefix/fixengine/fixsession"
	"github.com/primefix/fixengine/fixwire"
)

// onMessage is the entry point for every successfully-framed inbound
// message: verify, then dispatch, then drain anything verify's gap
// handling had queued up behind it.
func (s *Session) onMessage(frame fixwire.Frame) {
	msg := frame.Message
	msgType := frame.MsgType
	seqNum := frame.MsgSeqNum

	if msgType == msgTypeLogon && !s.state.LoggedOn() {
		s.handleLogon(msg, seqNum)
		return
	}

	outcome := s.verify(msg, msgType, seqNum)
	switch outcome {
	case verifyDisconnected:
		return
	case verifyQueuedForResend:
		return
	case verifyDuplicateDropped:
		return
	}

	s.dispatch(msg, msgType, seqNum)
	s.drainPending()
}

type verifyOutcome int

const (
	verifyOK verifyOutcome = iota
	verifyDisconnected
	verifyQueuedForResend
	verifyDuplicateDropped
)

// verify implements spec.md §4.4's ordered inbound checks: logon-state,
// SendingTime latency, CompID identity, then the sequence-number gate
// that either admits the message, queues it behind a ResendRequest, or
// drops a duplicate retransmission.
func (s *Session) verify(msg *fixschema.Message, msgType string, seqNum int32) verifyOutcome {
	if !s.state.LoggedOn() {
		s.sendLogoutAndDisconnect("logon required")
		return verifyDisconnected
	}

	if s.cfg.CheckLatency {
		if sendingTime, ok := getTimestamp(msg.Header, tagSendingTime); ok {
			if lat := time.Since(sendingTime); lat > s.cfg.MaxLatency || lat < -s.cfg.MaxLatency {
				s.enqueueAdmin(s.newReject(seqNum, msgType, fixschema.ReasonSendingTimeAccuracyProblem, tagSendingTime))
				s.sendLogoutAndDisconnect("SendingTime accuracy problem")
				return verifyDisconnected
			}
		}
	}

	if s.cfg.CheckCompID {
		sender, _ := getString(msg.Header, tagSenderCompID)
		target, _ := getString(msg.Header, tagTargetCompID)
		if sender != s.cfg.ID.TargetCompID || target != s.cfg.ID.SenderCompID {
			s.enqueueAdmin(s.newReject(seqNum, msgType, fixschema.ReasonCompIDProblem, tagSenderCompID))
			s.sendLogoutAndDisconnect("CompID problem")
			return verifyDisconnected
		}
	}

	// SequenceReset with GapFillFlag != Y is exempt from the sequence-number
	// gate entirely: it reaches handleSequenceReset whatever its MsgSeqNum,
	// even when the ordinary gap/duplicate logic below would otherwise
	// queue it for resend or reject it as a stale retransmission.
	// handleSequenceReset applies its NewSeqNo only when that is not lower
	// than what we currently expect.
	if msgType == msgTypeSequenceReset {
		if gapFill, _ := getBool(msg.Body, tagGapFillFlag); !gapFill {
			return verifyOK
		}
	}

	expected := s.state.Store.NextTargetSeqNum()
	switch {
	case seqNum == expected:
		return verifyOK

	case seqNum > expected:
		s.state.EnqueuePending(seqNum, msg)
		if s.state.ResendRange == nil || s.cfg.SendRedundantResendRequests {
			s.state.ResendRange = &fixsession.ResendRange{Begin: expected, End: seqNum - 1}
			s.enqueueAdmin(s.newResendRequest(expected, 0))
		}
		return verifyQueuedForResend

	default:
		possDup, _ := getBool(msg.Header, tagPossDupFlag)
		if possDup {
			return verifyDuplicateDropped
		}
		s.sendLogoutAndDisconnect("MsgSeqNum too low, expecting higher")
		return verifyDisconnected
	}
}

// dispatch routes an admitted message to its admin handler, or surfaces
// it to the user as an application message.
func (s *Session) dispatch(msg *fixschema.Message, msgType string, seqNum int32) {
	_ = s.state.Store.IncrNextTargetSeqNum()
	s.state.LastReceivedAt = time.Now()
	s.clearResendRangeUpTo(seqNum)

	switch msgType {
	case msgTypeHeartbeat:
		// nothing further to do; receipt alone satisfies the inbound timer.
	case msgTypeTestRequest:
		testReqID, _ := getString(msg.Body, tagTestReqID)
		s.enqueueAdmin(s.newHeartbeat(testReqID))
	case msgTypeResendRequest:
		begin, _ := getSeqNum(msg.Body, tagBeginSeqNo)
		end, _ := getSeqNum(msg.Body, tagEndSeqNo)
		s.handleResendRequest(begin, end)
	case msgTypeReject:
		s.emit(Event{Kind: EventReject, Message: msg})
	case msgTypeSequenceReset:
		s.handleSequenceReset(msg)
	case msgTypeLogout:
		s.handleLogout(msg)
	case msgTypeLogon:
		// A Logon while already logged on is a protocol violation once
		// the handshake is past; the peer most likely wants a reset.
		s.sendLogoutAndDisconnect("unexpected Logon while already logged on")
	default:
		s.emit(Event{Kind: EventApp, Message: msg})
	}
}

// clearResendRangeUpTo drops the outstanding resend range once seqNum
// has closed it, so a subsequent gap opens a fresh ResendRequest rather
// than being silently folded into a stale one.
func (s *Session) clearResendRangeUpTo(seqNum int32) {
	if s.state.ResendRange == nil {
		return
	}
	if s.state.ResendRange.End != 0 && seqNum >= s.state.ResendRange.End {
		s.state.ResendRange = nil
	}
}

// drainPending replays messages verify queued while a gap was open,
// in sequence order, now that the gap has closed.
func (s *Session) drainPending() {
	for {
		next := s.state.Store.NextTargetSeqNum()
		msg, ok := s.state.TakePending(next)
		if !ok {
			return
		}
		msgType := msg.Def.MsgType
		s.dispatch(msg, msgType, next)
	}
}

func (s *Session) handleSequenceReset(msg *fixschema.Message) {
	newSeqNo, ok := getSeqNum(msg.Body, tagNewSeqNo)
	if !ok {
		return
	}
	gapFill, _ := getBool(msg.Body, tagGapFillFlag)
	if !gapFill && newSeqNo < s.state.Store.NextTargetSeqNum() {
		return
	}
	_ = s.state.Store.SetNextTargetSeqNum(newSeqNo)
}

// handleLogout answers a peer-initiated Logout: if we had already
// sent one ourselves, this is the confirmation of our own logout
// request, so the connection just closes; otherwise we echo a Logout
// back before closing, per spec.md §4.4's logout exchange.
func (s *Session) handleLogout(msg *fixschema.Message) {
	text, _ := getString(msg.Body, tagText)
	if text != "" {
		s.log.Info().Str("text", text).Msg("peer logout")
	}
	if !s.state.LogoutSent {
		s.enqueueAdmin(s.newLogout(""))
	}
	s.emit(Event{Kind: EventLogout, Message: msg})
	s.disconnect(nil)
}
