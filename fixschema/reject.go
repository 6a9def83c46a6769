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

package fixschema

import "fmt"

// SessionRejectReason is the closed set of Reject(3) reasons.
type SessionRejectReason string

const (
	ReasonValueIsIncorrect               SessionRejectReason = "ValueIsIncorrect"
	ReasonTagSpecifiedWithoutAValue       SessionRejectReason = "TagSpecifiedWithoutAValue"
	ReasonIncorrectDataFormatForValue     SessionRejectReason = "IncorrectDataFormatForValue"
	ReasonTagAppearsMoreThanOnce          SessionRejectReason = "TagAppearsMoreThanOnce"
	ReasonTagSpecifiedOutOfRequiredOrder  SessionRejectReason = "TagSpecifiedOutOfRequiredOrder"
	ReasonRequiredTagMissing              SessionRejectReason = "RequiredTagMissing"
	ReasonIncorrectNumInGroupCount        SessionRejectReason = "IncorrectNumInGroupCount"
	ReasonTagNotDefinedForThisMessageType SessionRejectReason = "TagNotDefinedForThisMessageType"
	ReasonUndefinedTag                    SessionRejectReason = "UndefinedTag"
	ReasonRepeatingGroupFieldsOutOfOrder  SessionRejectReason = "RepeatingGroupFieldsOutOfOrder"
	ReasonInvalidTagNumber                SessionRejectReason = "InvalidTagNumber"
	ReasonInvalidMsgType                  SessionRejectReason = "InvalidMsgType"
	ReasonSendingTimeAccuracyProblem      SessionRejectReason = "SendingTimeAccuracyProblem"
	ReasonCompIDProblem                   SessionRejectReason = "CompIDProblem"
)

// ProtocolError is a message-level protocol error: MsgSeqNum is known (or
// discoverable) and the offending tag can be named, so the caller answers
// with Reject(3) rather than tearing down the session. Tag is 0 when the
// reason does not cite one (e.g. UndefinedTag always cites a tag, but a
// container-wide problem may not).
type ProtocolError struct {
	Reason SessionRejectReason
	Tag    int32
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fixschema: %s (tag %d)", e.Reason, e.Tag)
	}
	return fmt.Sprintf("fixschema: %s (tag %d): %s", e.Reason, e.Tag, e.Detail)
}

func protoErr(reason SessionRejectReason, tag int32, detailFmt string, args ...any) *ProtocolError {
	return &ProtocolError{Reason: reason, Tag: tag, Detail: fmt.Sprintf(detailFmt, args...)}
}
