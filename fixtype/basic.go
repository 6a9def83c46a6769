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

package fixtype

import "strconv"

// Int is a signed decimal integer field, the wire form of plain "Int"
// typed fields such as HeartBtInt.
type Int int64

func (v Int) EncodeFIX() []byte { return strconv.AppendInt(nil, int64(v), 10) }

func (v *Int) DecodeFIX(raw []byte) error {
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return ErrMalformed
	}
	*v = Int(n)
	return nil
}

// SeqNum is a FIX sequence number: unsigned in practice, encoded as Int.
type SeqNum uint32

func (v SeqNum) EncodeFIX() []byte { return strconv.AppendUint(nil, uint64(v), 10) }

func (v *SeqNum) DecodeFIX(raw []byte) error {
	n, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return ErrMalformed
	}
	*v = SeqNum(n)
	return nil
}

// NumInGroup is the repeating-group element count field.
type NumInGroup uint16

func (v NumInGroup) EncodeFIX() []byte { return strconv.AppendUint(nil, uint64(v), 10) }

func (v *NumInGroup) DecodeFIX(raw []byte) error {
	n, err := strconv.ParseUint(string(raw), 10, 16)
	if err != nil {
		return ErrMalformed
	}
	*v = NumInGroup(n)
	return nil
}

// Length is a byte-count field that precedes a Data/XmlData pair.
type Length uint32

func (v Length) EncodeFIX() []byte { return strconv.AppendUint(nil, uint64(v), 10) }

func (v *Length) DecodeFIX(raw []byte) error {
	n, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return ErrMalformed
	}
	*v = Length(n)
	return nil
}

// Boolean is the literal "Y"/"N" wire encoding. It is never an enumeration
// (spec: Boolean fields do not become enum variants).
type Boolean bool

func (v Boolean) EncodeFIX() []byte {
	if v {
		return []byte("Y")
	}
	return []byte("N")
}

func (v *Boolean) DecodeFIX(raw []byte) error {
	switch string(raw) {
	case "Y":
		*v = true
	case "N":
		*v = false
	default:
		return ErrMalformed
	}
	return nil
}

// Char is a single-byte field.
type Char byte

func (v Char) EncodeFIX() []byte { return []byte{byte(v)} }

func (v *Char) DecodeFIX(raw []byte) error {
	if len(raw) != 1 {
		return ErrMalformed
	}
	*v = Char(raw[0])
	return nil
}

// String is an unrestricted-charset text field.
type String string

func (v String) EncodeFIX() []byte { return []byte(v) }

func (v *String) DecodeFIX(raw []byte) error {
	*v = String(raw)
	return nil
}

// Data is a binary field whose length is given by a preceding Length field;
// it may legally contain the SOH byte and must be consumed literally.
type Data []byte

func (v Data) EncodeFIX() []byte { return v }

func (v *Data) DecodeFIX(raw []byte) error {
	*v = append(Data(nil), raw...)
	return nil
}

// XmlData behaves like Data on the wire (a custom-length binary blob).
type XmlData []byte

func (v XmlData) EncodeFIX() []byte { return v }

func (v *XmlData) DecodeFIX(raw []byte) error {
	*v = append(XmlData(nil), raw...)
	return nil
}
