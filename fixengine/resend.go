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

import "github.com/primefix/fixengine/fixwire"

// adminMsgTypes are never resent verbatim; a run of them inside a
// resend range collapses into a single SequenceReset-GapFill, per
// spec.md §4.4's ResendRequest handling.
var adminMsgTypes = map[string]bool{
	msgTypeHeartbeat:     true,
	msgTypeTestRequest:   true,
	msgTypeResendRequest: true,
	msgTypeReject:        true,
	msgTypeSequenceReset: true,
	msgTypeLogon:         true,
	msgTypeLogout:        true,
}

// handleResendRequest answers a peer's ResendRequest(2) by replaying
// stored application messages with PossDupFlag set, and collapsing any
// run of admin messages (or genuinely missing sequence numbers) into a
// single gap-fill SequenceReset spanning the run.
func (s *Session) handleResendRequest(begin, end int32) {
	last := s.state.Store.NextSenderSeqNum() - 1
	if end == 0 || end > last {
		end = last
	}
	if begin > end {
		return
	}

	stored, err := s.state.Store.Fetch(begin, end)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch resend range")
		return
	}
	byLine := make(map[int32][]byte, len(stored))
	for _, m := range stored {
		byLine[m.SeqNum] = m.Raw
	}

	gapStart := int32(0)
	flushGap := func(upTo int32) {
		if gapStart == 0 {
			return
		}
		s.enqueueReplay(s.newGapFillReplay(gapStart, upTo))
		gapStart = 0
	}

	for seq := begin; seq <= end; seq++ {
		raw, ok := byLine[seq]
		if !ok {
			if gapStart == 0 {
				gapStart = seq
			}
			continue
		}
		frame := s.dec.Decode(raw)
		if frame.Status != fixwire.StatusOK || adminMsgTypes[frame.MsgType] {
			if gapStart == 0 {
				gapStart = seq
			}
			continue
		}
		flushGap(seq)
		msg := frame.Message
		setBool(msg.Header, tagPossDupFlag, true)
		if origSendingTime, ok := getTimestamp(msg.Header, tagSendingTime); ok {
			setTimestamp(msg.Header, tagOrigSendingTime, origSendingTime)
		}
		s.enqueueReplay(msg)
	}
	flushGap(end + 1)
}
