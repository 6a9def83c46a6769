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
	"bytes"
	"strconv"

	"github.com/primefix/fixengine/fixdict"
)

// Serialize emits the message body in declaration order: header members
// (as defined by dict.Header), this message's own members, then trailer
// members (as defined by dict.Trailer). BeginString, BodyLength, MsgType
// and CheckSum are left to the caller (fixwire.Encoder), which owns the
// framing arithmetic described in spec §4.3/§6.
func (m *Message) Serialize(dict *fixdict.Dictionary) ([]byte, error) {
	var buf bytes.Buffer
	if dict.Header != nil {
		if err := serializeMembers(&buf, dict.Header.Members, m.Header, true); err != nil {
			return nil, err
		}
	}
	if err := serializeMembers(&buf, m.Def.Members, m.Body, true); err != nil {
		return nil, err
	}
	if dict.Trailer != nil {
		if err := serializeMembers(&buf, dict.Trailer.Members, m.Trailer, true); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// outerRequired carries whether the enclosing component member (if any) is
// itself required; a required leaf inside an optional component is only
// truly mandatory when the component is, matching the AND-of-required-flags
// rule the dictionary's flatten_components option applies explicitly.
func serializeMembers(buf *bytes.Buffer, members []*fixdict.Member, fields *Fields, outerRequired bool) error {
	for i := 0; i < len(members); i++ {
		member := members[i]
		required := member.Required && outerRequired

		if member.Kind == fixdict.MemberField && member.Field.LengthFor != nil &&
			i+1 < len(members) && members[i+1].Kind == fixdict.MemberField &&
			members[i+1].Field == member.Field.LengthFor {
			dataMember := members[i+1]
			dataVal, ok := fields.Field(dataMember.Field.Tag)
			if !ok {
				if required || (dataMember.Required && outerRequired) {
					return protoErr(ReasonRequiredTagMissing, dataMember.Field.Tag, "")
				}
				i++
				continue
			}
			raw := dataVal.EncodeFIX()
			writeTagValue(buf, member.Field.Tag, []byte(strconv.Itoa(len(raw))))
			writeTagValue(buf, dataMember.Field.Tag, raw)
			i++
			continue
		}

		switch member.Kind {
		case fixdict.MemberField:
			if skipTags[member.Field.Tag] {
				continue
			}
			v, ok := fields.Field(member.Field.Tag)
			if !ok {
				if required {
					return protoErr(ReasonRequiredTagMissing, member.Field.Tag, "")
				}
				continue
			}
			writeTagValue(buf, member.Field.Tag, v.EncodeFIX())

		case fixdict.MemberComponent:
			if err := serializeMembers(buf, member.Component.Members, fields, required); err != nil {
				return err
			}

		case fixdict.MemberGroup:
			instances, ok := fields.Group(member.Group.CountField.Tag)
			if !ok {
				if required {
					return protoErr(ReasonRequiredTagMissing, member.Group.CountField.Tag, "")
				}
				continue
			}
			writeTagValue(buf, member.Group.CountField.Tag, []byte(strconv.Itoa(len(instances))))
			for _, inst := range instances {
				if err := serializeMembers(buf, member.Group.Members, inst, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeTagValue(buf *bytes.Buffer, tag int32, value []byte) {
	buf.WriteString(strconv.Itoa(int(tag)))
	buf.WriteByte('=')
	buf.Write(value)
	buf.WriteByte(0x01)
}
