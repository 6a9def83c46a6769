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
	"strconv"

	"github.com/primefix/fixengine/fixdict"
)

// Deserialize parses a framed message body (with BeginString, BodyLength,
// MsgType and CheckSum already stripped by the framer) against def, using
// dict for the header/trailer member definitions. Tag dispatch does not
// require positional order between header/body/trailer — real FIX wire
// traffic interleaves them only by convention, never by a hard boundary —
// but length-pairs and group-instance ordering are enforced as specified.
func Deserialize(dict *fixdict.Dictionary, def *MessageDef, body []byte) (*Message, *ProtocolError) {
	msg := NewMessage(def)

	var headerIdx, trailerIdx map[int32]*fixdict.Member
	if dict.Header != nil {
		headerIdx = buildTagIndex(dict.Header.Members)
	}
	if dict.Trailer != nil {
		trailerIdx = buildTagIndex(dict.Trailer.Members)
	}
	bodyIdx := buildTagIndex(def.Members)

	r := newTagReader(body)
	for r.more() {
		tag, raw, ok := r.peek()
		if !ok {
			break
		}
		if skipTags[tag] {
			return nil, protoErr(ReasonTagSpecifiedOutOfRequiredOrder, tag, "framing tag reappeared in body")
		}

		member, fields := lookupMember(tag, headerIdx, msg.Header, bodyIdx, msg.Body, trailerIdx, msg.Trailer)
		if member == nil {
			return nil, protoErr(ReasonUndefinedTag, tag, "")
		}
		if fields.HasTag(tag) {
			return nil, protoErr(ReasonTagAppearsMoreThanOnce, tag, "")
		}

		if member.Kind == fixdict.MemberField && member.Field.LengthFor != nil {
			r.advance(tag, raw)
			length, err := strconv.Atoi(string(raw))
			if err != nil || length < 0 {
				return nil, protoErr(ReasonIncorrectDataFormatForValue, tag, "")
			}
			dataTag, dataRaw, ok := r.nextDataField(length)
			if !ok || dataTag != member.Field.LengthFor.Tag {
				return nil, protoErr(ReasonTagSpecifiedOutOfRequiredOrder, member.Field.LengthFor.Tag, "must immediately follow its length field")
			}
			val := newValueForKind(member.Field.LengthFor.Kind)
			if err := val.DecodeFIX(dataRaw); err != nil {
				return nil, protoErr(ReasonIncorrectDataFormatForValue, dataTag, "")
			}
			fields.SetField(dataTag, val)
			continue
		}

		switch member.Kind {
		case fixdict.MemberField:
			r.advance(tag, raw)
			val := newValueForKind(member.Field.Kind)
			if err := val.DecodeFIX(raw); err != nil {
				return nil, protoErr(ReasonIncorrectDataFormatForValue, tag, "")
			}
			fields.SetField(tag, val)

		case fixdict.MemberGroup:
			r.advance(tag, raw)
			count, err := strconv.Atoi(string(raw))
			if err != nil || count < 0 {
				return nil, protoErr(ReasonIncorrectDataFormatForValue, tag, "")
			}
			instances, perr := deserializeGroup(member.Group, r, count)
			if perr != nil {
				return nil, perr
			}
			fields.SetGroup(tag, instances)

		default:
			return nil, protoErr(ReasonUndefinedTag, tag, "")
		}
	}

	if err := checkRequired(dict, def, headerIdx != nil, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// buildTagIndex flattens components into the same tag->member map; groups
// stop the recursion (their own member set is indexed lazily per instance).
func buildTagIndex(members []*fixdict.Member) map[int32]*fixdict.Member {
	idx := make(map[int32]*fixdict.Member)
	var walk func([]*fixdict.Member)
	walk = func(ms []*fixdict.Member) {
		for _, m := range ms {
			switch m.Kind {
			case fixdict.MemberField:
				idx[m.Field.Tag] = m
			case fixdict.MemberGroup:
				idx[m.Group.CountField.Tag] = m
			case fixdict.MemberComponent:
				walk(m.Component.Members)
			}
		}
	}
	walk(members)
	return idx
}

func lookupMember(tag int32, headerIdx map[int32]*fixdict.Member, header *Fields, bodyIdx map[int32]*fixdict.Member, body *Fields, trailerIdx map[int32]*fixdict.Member, trailer *Fields) (*fixdict.Member, *Fields) {
	if m, ok := bodyIdx[tag]; ok {
		return m, body
	}
	if m, ok := headerIdx[tag]; ok {
		return m, header
	}
	if m, ok := trailerIdx[tag]; ok {
		return m, trailer
	}
	return nil, nil
}

// deserializeGroup reads count element instances of group off r. Each
// instance's fields must appear in the same tag order as the first
// instance, or RepeatingGroupFieldsOutOfOrder is raised citing the first
// displaced tag.
func deserializeGroup(group *fixdict.Group, r *tagReader, count int) ([]*Fields, *ProtocolError) {
	idx := buildTagIndex(group.Members)
	instances := make([]*Fields, 0, count)
	var firstOrder []int32

	for i := 0; i < count; i++ {
		inst := NewFields()
		var order []int32
		for r.more() {
			tag, raw, ok := r.peek()
			if !ok {
				break
			}
			if len(order) > 0 && tag == order[0] {
				break // delimiter tag seen again: next instance begins
			}
			member, known := idx[tag]
			if !known {
				break // tag belongs to the enclosing container, not this group
			}
			if inst.HasTag(tag) {
				if i+1 < count {
					break // repeated tag opens the next instance, out of order
				}
				return nil, protoErr(ReasonTagAppearsMoreThanOnce, tag, "")
			}

			if member.Kind == fixdict.MemberField && member.Field.LengthFor != nil {
				r.advance(tag, raw)
				length, err := strconv.Atoi(string(raw))
				if err != nil || length < 0 {
					return nil, protoErr(ReasonIncorrectDataFormatForValue, tag, "")
				}
				dataTag, dataRaw, ok := r.nextDataField(length)
				if !ok || dataTag != member.Field.LengthFor.Tag {
					return nil, protoErr(ReasonTagSpecifiedOutOfRequiredOrder, member.Field.LengthFor.Tag, "")
				}
				val := newValueForKind(member.Field.LengthFor.Kind)
				if err := val.DecodeFIX(dataRaw); err != nil {
					return nil, protoErr(ReasonIncorrectDataFormatForValue, dataTag, "")
				}
				inst.SetField(dataTag, val)
				order = append(order, tag)
				continue
			}

			switch member.Kind {
			case fixdict.MemberField:
				r.advance(tag, raw)
				val := newValueForKind(member.Field.Kind)
				if err := val.DecodeFIX(raw); err != nil {
					return nil, protoErr(ReasonIncorrectDataFormatForValue, tag, "")
				}
				inst.SetField(tag, val)
			case fixdict.MemberGroup:
				r.advance(tag, raw)
				cnt, err := strconv.Atoi(string(raw))
				if err != nil || cnt < 0 {
					return nil, protoErr(ReasonIncorrectDataFormatForValue, tag, "")
				}
				nested, perr := deserializeGroup(member.Group, r, cnt)
				if perr != nil {
					return nil, perr
				}
				inst.SetGroup(tag, nested)
			}
			order = append(order, tag)
		}
		if len(order) == 0 {
			return nil, protoErr(ReasonIncorrectNumInGroupCount, group.CountField.Tag, "fewer instances than declared count")
		}
		if i == 0 {
			firstOrder = order
		} else if displaced, mismatched := firstDisplacedTag(firstOrder, order); mismatched {
			return nil, protoErr(ReasonRepeatingGroupFieldsOutOfOrder, displaced, "")
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

func firstDisplacedTag(want, got []int32) (int32, bool) {
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			return got[i], true
		}
	}
	if len(want) != len(got) {
		if len(got) < len(want) {
			return want[len(got)], true
		}
		return got[len(want)], true
	}
	return 0, false
}

// checkRequired walks header, body and trailer member lists, reporting the
// first required member with no stored value as RequiredTagMissing.
func checkRequired(dict *fixdict.Dictionary, def *MessageDef, hasHeader bool, msg *Message) *ProtocolError {
	if hasHeader {
		if err := checkRequiredIn(dict.Header.Members, msg.Header, true); err != nil {
			return err
		}
	}
	if err := checkRequiredIn(def.Members, msg.Body, true); err != nil {
		return err
	}
	if dict.Trailer != nil {
		if err := checkRequiredIn(dict.Trailer.Members, msg.Trailer, true); err != nil {
			return err
		}
	}
	return nil
}

// outerRequired mirrors serializeMembers' AND-of-required-flags treatment
// of a required field nested inside an optional component.
func checkRequiredIn(members []*fixdict.Member, fields *Fields, outerRequired bool) *ProtocolError {
	for _, m := range members {
		required := m.Required && outerRequired
		switch m.Kind {
		case fixdict.MemberField:
			if skipTags[m.Field.Tag] {
				continue
			}
			if required && !fields.HasTag(m.Field.Tag) {
				return protoErr(ReasonRequiredTagMissing, m.Field.Tag, "")
			}
		case fixdict.MemberGroup:
			if required && !fields.HasTag(m.Group.CountField.Tag) {
				return protoErr(ReasonRequiredTagMissing, m.Group.CountField.Tag, "")
			}
		case fixdict.MemberComponent:
			if err := checkRequiredIn(m.Component.Members, fields, required); err != nil {
				return err
			}
		}
	}
	return nil
}
