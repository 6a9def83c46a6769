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

// Package fixtype implements the closed set of FIX basic types: the
// primitive domain values a dictionary Field ultimately bottoms out to.
package fixtype

import "errors"

// ErrMalformed is returned by DecodeFIX when raw bytes don't match the
// wire grammar for the type (not a dictionary error; a per-field one).
var ErrMalformed = errors.New("fixtype: malformed value")

// FieldValue is implemented by every basic type. EncodeFIX/DecodeFIX work
// on the bare value bytes — no tag, no '=', no trailing SOH.
type FieldValue interface {
	EncodeFIX() []byte
	DecodeFIX(raw []byte) error
}

// Kind enumerates the closed set of basic types named in the dictionary.
type Kind string

const (
	KindAmt                 Kind = "Amt"
	KindBoolean             Kind = "Boolean"
	KindChar                Kind = "Char"
	KindCountry             Kind = "Country"
	KindCurrency            Kind = "Currency"
	KindData                Kind = "Data"
	KindExchange            Kind = "Exchange"
	KindFloat               Kind = "Float"
	KindInt                 Kind = "Int"
	KindLanguage            Kind = "Language"
	KindLength              Kind = "Length"
	KindLocalMktDate        Kind = "LocalMktDate"
	KindMonthYear           Kind = "MonthYear"
	KindMultipleCharValue   Kind = "MultipleCharValue"
	KindMultipleStringValue Kind = "MultipleStringValue"
	KindNumInGroup          Kind = "NumInGroup"
	KindPercentage          Kind = "Percentage"
	KindPrice               Kind = "Price"
	KindPriceOffset         Kind = "PriceOffset"
	KindQty                 Kind = "Qty"
	KindSeqNum              Kind = "SeqNum"
	KindString              Kind = "String"
	KindTzTimeOnly          Kind = "TzTimeOnly"
	KindTzTimestamp         Kind = "TzTimestamp"
	KindUtcDateOnly         Kind = "UtcDateOnly"
	KindUtcTimeOnly         Kind = "UtcTimeOnly"
	KindUtcTimestamp        Kind = "UtcTimestamp"
	KindXmlData             Kind = "XmlData"
)

// IsDecimal reports whether a kind is Float or one of its decimal aliases.
func IsDecimal(k Kind) bool {
	switch k {
	case KindFloat, KindQty, KindPrice, KindPriceOffset, KindAmt, KindPercentage:
		return true
	default:
		return false
	}
}

// IsMultiValue reports whether a kind is a space-separated sequence type.
func IsMultiValue(k Kind) bool {
	return k == KindMultipleCharValue || k == KindMultipleStringValue
}
