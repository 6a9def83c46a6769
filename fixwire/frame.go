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

// Package fixwire implements the FIX wire codec: the incremental
// BeginString/BodyLength/CheckSum framer and the encoder that stamps
// those same fields on outbound messages. Its frame-then-dispatch shape
// is grounded in cs104's APCI parser (rob-gra-go-iecp5), generalized from
// IEC-104's fixed 6-byte binary control field to FIX's variable-length
// ASCII 8=/9=/10= framing.
package fixwire

import (
	"bytes"
	"strconv"

	"github.com/primefix/fixengine/fixdict"
	"github.com/primefix/fixengine/fixschema"
)

const soh = 0x01

// Status describes the outcome of a single Decode attempt.
type Status int

const (
	// StatusIncomplete means the buffer does not yet hold a full frame;
	// the caller should wait for more bytes and retry.
	StatusIncomplete Status = iota
	// StatusGarbled means the buffer held invalid framing; the decoder
	// has already advanced past the corrupted window.
	StatusGarbled
	// StatusOK means Message is populated with a parsed message.
	StatusOK
	// StatusReject means the frame was well-formed but the body failed
	// schema-level validation; Reject carries the citation.
	StatusReject
)

// Frame is one decode attempt's result.
type Frame struct {
	Status  Status
	Message *fixschema.Message
	Reject  *fixschema.ProtocolError
	// MsgType and MsgSeqNum are populated even on StatusReject, when
	// known, so the caller can cite them in a Reject(3) reply.
	MsgType   string
	MsgSeqNum int32
	// Consumed is the number of leading bytes of the input that this
	// decode attempt consumed (0 on StatusIncomplete).
	Consumed int
}

// Decoder is an incremental framer over an append-only byte buffer. It
// holds no dictionary state itself beyond what's needed to dispatch a
// parsed MsgType to a *fixdict.Message definition.
type Decoder struct {
	dict *fixdict.Dictionary
}

// NewDecoder returns a Decoder that resolves message bodies against dict.
// For a FIXT transport dictionary, pass the transport dictionary: Decode
// routes each MsgType to dict itself or, failing that, to whichever of
// dict.Subdictionaries defines it, and always frames against dict's own
// Header/Trailer.
func NewDecoder(dict *fixdict.Dictionary) *Decoder {
	return &Decoder{dict: dict}
}

// Decode attempts to extract and parse one frame from the front of buf.
// It never blocks: StatusIncomplete means "call again once more bytes
// have arrived", with Consumed == 0.
func (d *Decoder) Decode(buf []byte) Frame {
	beginTag := []byte("8=")
	start := bytes.Index(buf, beginTag)
	if start < 0 {
		return Frame{Status: StatusIncomplete}
	}
	if start > 0 {
		// Leading garbage before the first plausible 8=: drop it and
		// let the caller re-decode from the aligned start.
		return Frame{Status: StatusGarbled, Consumed: start}
	}

	sohAfterBegin := bytes.IndexByte(buf, soh)
	if sohAfterBegin < 0 {
		return Frame{Status: StatusIncomplete}
	}

	bodyLenTag := []byte("9=")
	afterBegin := buf[sohAfterBegin+1:]
	if len(afterBegin) < len(bodyLenTag) && bytes.HasPrefix(bodyLenTag, afterBegin) {
		return Frame{Status: StatusIncomplete}
	}
	if !bytes.HasPrefix(afterBegin, bodyLenTag) {
		return garbledAdvance(buf, 1)
	}
	lenFieldStart := sohAfterBegin + 1 + len(bodyLenTag)
	sohAfterLen := bytes.IndexByte(buf[lenFieldStart:], soh)
	if sohAfterLen < 0 {
		return Frame{Status: StatusIncomplete}
	}
	bodyLen, err := strconv.Atoi(string(buf[lenFieldStart : lenFieldStart+sohAfterLen]))
	if err != nil || bodyLen < 0 || bodyLen > 1<<24 {
		return garbledAdvance(buf, 1)
	}

	bodyStart := lenFieldStart + sohAfterLen + 1
	checksumTagStart := bodyStart + bodyLen
	if checksumTagStart+7 > len(buf) {
		return Frame{Status: StatusIncomplete} // "10=ccc\x01" is 7 bytes
	}
	if !bytes.HasPrefix(buf[checksumTagStart:], []byte("10=")) {
		return garbledAdvance(buf, 1)
	}
	csDigits := buf[checksumTagStart+3 : checksumTagStart+6]
	if buf[checksumTagStart+6] != soh {
		return garbledAdvance(buf, 1)
	}
	wantCS, err := strconv.Atoi(string(csDigits))
	if err != nil {
		return garbledAdvance(buf, 1)
	}

	frameEnd := checksumTagStart + 7
	gotCS := checksum(buf[:checksumTagStart])
	if gotCS != wantCS {
		return garbledAdvance(buf, 1)
	}

	rawBody := buf[bodyStart:checksumTagStart]
	msgType, msgSeqNum, perr := scanHeaderIdentity(rawBody)
	if perr != nil {
		return Frame{Status: StatusReject, Reject: perr, Consumed: frameEnd}
	}
	body, perr := stripMsgType(rawBody)
	if perr != nil {
		return Frame{Status: StatusReject, Reject: perr, MsgType: msgType, MsgSeqNum: msgSeqNum, Consumed: frameEnd}
	}

	def, ok := d.resolveMessageDef(msgType)
	if !ok {
		return Frame{
			Status:    StatusReject,
			Reject:    &fixschema.ProtocolError{Reason: fixschema.ReasonInvalidMsgType, Detail: msgType},
			MsgType:   msgType,
			MsgSeqNum: msgSeqNum,
			Consumed:  frameEnd,
		}
	}

	// Header/Trailer always come from d.dict: a FIX>=5.0 application
	// subdictionary declares neither, relying on the FIXT transport
	// dictionary that carries it.
	msg, perr := fixschema.Deserialize(d.dict, def, body)
	if perr != nil {
		return Frame{
			Status:    StatusReject,
			Reject:    perr,
			MsgType:   msgType,
			MsgSeqNum: msgSeqNum,
			Consumed:  frameEnd,
		}
	}
	return Frame{Status: StatusOK, Message: msg, MsgType: msgType, MsgSeqNum: msgSeqNum, Consumed: frameEnd}
}

// resolveMessageDef looks up msgType against d.dict's own message table
// first, then against every application subdictionary (present only on a
// FIXT transport Dictionary). This is the routing the package doc promises:
// a FIXT session's admin traffic (Logon, Heartbeat, ResendRequest, ...) is
// defined on the transport dictionary itself, while its application traffic
// (NewOrderSingle, ExecutionReport, ...) lives in whichever FIX>=5.0
// subdictionary was loaded alongside it. A MsgType present in more than one
// subdictionary resolves to whichever is found first; dictionaries loaded
// together are not expected to collide on MsgType.
func (d *Decoder) resolveMessageDef(msgType string) (*fixdict.Message, bool) {
	if def, ok := d.dict.MessagesByType[msgType]; ok {
		return def, true
	}
	for _, sub := range d.dict.Subdictionaries {
		if def, ok := sub.MessagesByType[msgType]; ok {
			return def, true
		}
	}
	return nil, false
}

// garbledAdvance reports garbled framing, advancing past the leading byte
// so the caller can re-search for the next plausible 8= occurrence.
func garbledAdvance(buf []byte, n int) Frame {
	return Frame{Status: StatusGarbled, Consumed: n}
}

func checksum(b []byte) int {
	var sum int
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

// stripMsgType removes the leading MsgType(35) field from a raw framed
// body so the schema-driven parse in fixschema.Deserialize never sees the
// framing tags it's forbidden to encounter mid-body.
func stripMsgType(body []byte) ([]byte, *fixschema.ProtocolError) {
	const prefix = "35="
	if !bytes.HasPrefix(body, []byte(prefix)) {
		return nil, &fixschema.ProtocolError{Reason: fixschema.ReasonTagSpecifiedOutOfRequiredOrder, Tag: 35, Detail: "MsgType must be the first field in the body"}
	}
	sohIdx := bytes.IndexByte(body, soh)
	if sohIdx < 0 {
		return nil, &fixschema.ProtocolError{Reason: fixschema.ReasonTagSpecifiedWithoutAValue, Tag: 35}
	}
	return body[sohIdx+1:], nil
}

// scanHeaderIdentity pulls MsgType(35) and MsgSeqNum(34) out of the raw
// body without a full schema-driven parse, so framing-level rejects can
// still cite MsgSeqNum. It does not validate anything beyond presence.
func scanHeaderIdentity(body []byte) (msgType string, msgSeqNum int32, err *fixschema.ProtocolError) {
	pos := 0
	for pos < len(body) {
		eq := bytes.IndexByte(body[pos:], '=')
		if eq < 0 {
			break
		}
		tagStr := string(body[pos : pos+eq])
		tag, convErr := strconv.Atoi(tagStr)
		if convErr != nil {
			break
		}
		valStart := pos + eq + 1
		sohIdx := bytes.IndexByte(body[valStart:], soh)
		if sohIdx < 0 {
			break
		}
		val := body[valStart : valStart+sohIdx]
		switch tag {
		case 35:
			msgType = string(val)
		case 34:
			n, convErr := strconv.Atoi(string(val))
			if convErr == nil {
				msgSeqNum = int32(n)
			}
		}
		pos = valStart + sohIdx + 1
		if msgType != "" && msgSeqNum != 0 {
			break
		}
	}
	if msgType == "" {
		return "", 0, &fixschema.ProtocolError{Reason: fixschema.ReasonInvalidMsgType, Detail: "MsgType not found in body"}
	}
	return msgType, msgSeqNum, nil
}
