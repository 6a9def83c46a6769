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

package fixwire

import (
	"bytes"
	"fmt"

	"github.com/primefix/fixengine/fixdict"
	"github.com/primefix/fixengine/fixschema"
)

// Encoder stamps BeginString, BodyLength, MsgType and CheckSum around a
// schema-serialized message body. It holds no session state; SenderCompID,
// TargetCompID, MsgSeqNum and SendingTime are expected to already be set on
// msg.Header by the caller.
type Encoder struct {
	dict *fixdict.Dictionary
}

// NewEncoder returns an Encoder that frames messages against dict's
// Version as the BeginString value.
func NewEncoder(dict *fixdict.Dictionary) *Encoder {
	return &Encoder{dict: dict}
}

// Encode serializes msg and wraps it with the standard header/trailer
// framing fields. msg.Def.MsgType supplies tag 35.
func (e *Encoder) Encode(msg *fixschema.Message) ([]byte, error) {
	body, err := msg.Serialize(e.dict)
	if err != nil {
		return nil, err
	}

	var mid bytes.Buffer
	mid.WriteString("35=")
	mid.WriteString(msg.Def.MsgType)
	mid.WriteByte(soh)
	mid.Write(body)

	bodyLen := mid.Len()

	var frame bytes.Buffer
	frame.WriteString("8=")
	frame.WriteString(e.dict.Version.String())
	frame.WriteByte(soh)
	frame.WriteString(fmt.Sprintf("9=%d", bodyLen))
	frame.WriteByte(soh)
	frame.Write(mid.Bytes())

	cs := checksum(frame.Bytes())
	frame.WriteString(fmt.Sprintf("10=%03d", cs))
	frame.WriteByte(soh)

	return frame.Bytes(), nil
}
