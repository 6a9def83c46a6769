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
)

// Admin MsgType values used internally by the engine.
const (
	msgTypeHeartbeat     = "0"
	msgTypeTestRequest   = "1"
	msgTypeResendRequest = "2"
	msgTypeReject        = "3"
	msgTypeSequenceReset = "4"
	msgTypeLogout        = "5"
	msgTypeLogon         = "A"
)

// newAdminMessage allocates a Message for msgType with the header's
// identity fields stamped; SendingTime and MsgSeqNum are finished by the
// output loop at send time, per spec.md §4.3's encoder contract.
func (s *Session) newAdminMessage(msgType string) *fixschema.Message {
	def, ok := s.cfg.Dict.MessagesByType[msgType]
	if !ok {
		return nil
	}
	msg := fixschema.NewMessage(def)
	setString(msg.Header, tagSenderCompID, s.cfg.ID.SenderCompID)
	setString(msg.Header, tagTargetCompID, s.cfg.ID.TargetCompID)
	return msg
}

func (s *Session) newHeartbeat(testReqID string) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeHeartbeat)
	if testReqID != "" {
		setString(msg.Body, tagTestReqID, testReqID)
	}
	return msg
}

func (s *Session) newTestRequest(testReqID string) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeTestRequest)
	setString(msg.Body, tagTestReqID, testReqID)
	return msg
}

func (s *Session) newLogon(resetSeqNum bool) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeLogon)
	setInt(msg.Body, tagEncryptMethod, 0)
	setInt(msg.Body, tagHeartBtInt, int32(s.cfg.HeartBtInt/time.Second))
	if resetSeqNum {
		setBool(msg.Body, tagResetSeqNumFlag, true)
	}
	if s.cfg.EnableNextExpectedMsgSeqNum {
		setSeqNum(msg.Body, tagNextExpectedSeq, s.state.Store.NextTargetSeqNum())
	}
	return msg
}

func (s *Session) newLogout(text string) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeLogout)
	if text != "" {
		setString(msg.Body, tagText, text)
	}
	return msg
}

func (s *Session) newResendRequest(begin, end int32) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeResendRequest)
	setSeqNum(msg.Body, tagBeginSeqNo, begin)
	setSeqNum(msg.Body, tagEndSeqNo, end)
	return msg
}

func (s *Session) newGapFill(newSeqNo int32) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeSequenceReset)
	setBool(msg.Body, tagGapFillFlag, true)
	setSeqNum(msg.Body, tagNewSeqNo, newSeqNo)
	return msg
}

// newGapFillReplay builds a SequenceReset-GapFill stamped with an
// explicit MsgSeqNum, for collapsing a run of admin messages inside a
// resend replay rather than resending each one verbatim.
func (s *Session) newGapFillReplay(beginSeqNo, newSeqNo int32) *fixschema.Message {
	msg := s.newGapFill(newSeqNo)
	setSeqNum(msg.Header, tagMsgSeqNum, beginSeqNo)
	setTimestamp(msg.Header, tagSendingTime, time.Now().UTC())
	return msg
}

func (s *Session) newSequenceReset(newSeqNo int32) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeSequenceReset)
	setBool(msg.Body, tagGapFillFlag, false)
	setSeqNum(msg.Body, tagNewSeqNo, newSeqNo)
	return msg
}

// newReject builds a session-level Reject(3) citing the offending seq
// num/tag/reason, per spec.md §7's "Emit Reject(3) citing RefSeqNum,
// RefMsgType, RefTagID, and the session-reject reason" policy.
func (s *Session) newReject(refSeqNum int32, refMsgType string, reason fixschema.SessionRejectReason, tag int32) *fixschema.Message {
	msg := s.newAdminMessage(msgTypeReject)
	setSeqNum(msg.Body, tagRefSeqNum, refSeqNum)
	if refMsgType != "" {
		setString(msg.Body, tagRefMsgType, refMsgType)
	}
	if tag != 0 {
		setInt(msg.Body, tagRefTagID, tag)
	}
	setString(msg.Body, tagSessionRejReason, string(reason))
	return msg
}
