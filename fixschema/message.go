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

import (
	"github.com/primefix/fixengine/fixdict"
	"github.com/primefix/fixengine/fixtype"
)

// MessageDef aliases the dictionary's message definition so callers don't
// need to import fixdict solely to construct a Message.
type MessageDef = fixdict.Message

// Message is the runtime stand-in for a code-generated message type: a
// dictionary message definition paired with the three field containers
// that make up a FIX wire message. The discriminated union over every
// message type named in spec.md's code generator section is expressed at
// runtime by Def.MsgType rather than a compile-time sum type.
type Message struct {
	Def     *MessageDef
	Header  *Fields
	Body    *Fields
	Trailer *Fields
}

// NewMessage allocates a Message with empty field containers for def.
func NewMessage(def *MessageDef) *Message {
	return &Message{
		Def:     def,
		Header:  NewFields(),
		Body:    NewFields(),
		Trailer: NewFields(),
	}
}

// skipTags are header tags consumed by the outer framer (fixwire) rather
// than by member-level serialize/deserialize: BeginString, BodyLength and
// MsgType are framing concerns, CheckSum is a trailer framing concern.
var skipTags = map[int32]bool{8: true, 9: true, 35: true, 10: true}

func newValueForKind(kind fixtype.Kind) fixtype.FieldValue {
	switch kind {
	case fixtype.KindInt:
		return new(fixtype.Int)
	case fixtype.KindSeqNum:
		return new(fixtype.SeqNum)
	case fixtype.KindNumInGroup:
		return new(fixtype.NumInGroup)
	case fixtype.KindLength:
		return new(fixtype.Length)
	case fixtype.KindBoolean:
		return new(fixtype.Boolean)
	case fixtype.KindChar:
		return new(fixtype.Char)
	case fixtype.KindString:
		return new(fixtype.String)
	case fixtype.KindData:
		return new(fixtype.Data)
	case fixtype.KindXmlData:
		return new(fixtype.XmlData)
	case fixtype.KindFloat, fixtype.KindQty, fixtype.KindPrice, fixtype.KindPriceOffset, fixtype.KindAmt, fixtype.KindPercentage:
		return new(fixtype.Float)
	case fixtype.KindCountry:
		return new(fixtype.Country)
	case fixtype.KindCurrency:
		return new(fixtype.Currency)
	case fixtype.KindLanguage:
		return new(fixtype.Language)
	case fixtype.KindExchange:
		return new(fixtype.Exchange)
	case fixtype.KindUtcTimestamp:
		return new(fixtype.UtcTimestamp)
	case fixtype.KindUtcDateOnly:
		return new(fixtype.UtcDateOnly)
	case fixtype.KindLocalMktDate:
		return new(fixtype.LocalMktDate)
	case fixtype.KindUtcTimeOnly:
		return new(fixtype.UtcTimeOnly)
	case fixtype.KindTzTimeOnly:
		return new(fixtype.TzTimeOnly)
	case fixtype.KindTzTimestamp:
		return new(fixtype.TzTimestamp)
	case fixtype.KindMonthYear:
		return new(fixtype.MonthYear)
	case fixtype.KindMultipleCharValue:
		return new(fixtype.MultipleCharValue)
	case fixtype.KindMultipleStringValue:
		return new(fixtype.MultipleStringValue)
	default:
		return new(fixtype.String)
	}
}
