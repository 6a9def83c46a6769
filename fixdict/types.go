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

// Package fixdict loads FIX/FIXT XML dictionary documents into a validated,
// cross-reference-resolved in-memory schema.
package fixdict

import "github.com/primefix/fixengine/fixtype"

// Version identifies a dictionary's protocol version.
type Version struct {
	Type        string // "FIX" or "FIXT"
	Major       int
	Minor       int
	ServicePack int
}

// String renders the BeginString form, e.g. "FIX.4.4" or "FIXT.1.1", with
// the "SPn" suffix when ServicePack is non-zero.
func (v Version) String() string {
	s := v.Type + "." + itoa(v.Major) + "." + itoa(v.Minor)
	if v.ServicePack != 0 {
		s += "SP" + itoa(v.ServicePack)
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// EnumValue is one allowed value of a field's enumeration.
type EnumValue struct {
	Value       string
	Description string
}

// Field is a dictionary field definition: a numeric tag, a name, a basic
// type, and optionally a closed enumeration of allowed wire values.
type Field struct {
	Tag  int32
	Name string
	Kind fixtype.Kind
	Enum []EnumValue // nil if the field has no enumeration

	// LengthFor is set when this field is the Length half of a
	// Length+Data/XmlData custom-length pair; it names the paired field.
	LengthFor *Field
}

// HasEnum reports whether the field carries a closed enumeration. Boolean
// fields never do, even if the XML happens to list Y/N as values.
func (f *Field) HasEnum() bool {
	return len(f.Enum) > 0 && f.Kind != fixtype.KindBoolean
}

// MemberKind discriminates what a Member refers to.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberComponent
	MemberGroup
)

// Member is one entry in a container's ordered member list: a reference to
// a shared Field/Component/Group definition plus usage metadata (the
// required flag) that is local to this container.
type Member struct {
	Kind      MemberKind
	Field     *Field
	Component *Component
	Group     *Group
	Required  bool
}

// Name returns the member's definition name, regardless of kind.
func (m *Member) Name() string {
	switch m.Kind {
	case MemberField:
		return m.Field.Name
	case MemberComponent:
		return m.Component.Name
	case MemberGroup:
		return m.Group.Name
	default:
		return ""
	}
}

// Component is a named, ordered list of members.
type Component struct {
	Name    string
	Members []*Member
}

// Group is a repeating structure: a designated NumInGroup count field plus
// an ordered list of element members.
type Group struct {
	Name       string // the group type name (count field name, "No" stripped)
	CountField *Field
	Members    []*Member
}

// Category distinguishes administrative from application messages.
type Category string

const (
	CategoryAdmin Category = "Admin"
	CategoryApp   Category = "App"
)

// Message is a dictionary message definition.
type Message struct {
	Name     string
	MsgType  string
	Category Category
	Members  []*Member
}

// Dictionary is a fully resolved, validated FIX/FIXT schema.
type Dictionary struct {
	Version Version

	Header  *Component // nil for a FIX>=5.0 application dictionary
	Trailer *Component

	FieldsByName map[string]*Field
	FieldsByTag  map[int32]*Field
	Components   map[string]*Component
	Groups       map[string]*Group

	MessagesByName map[string]*Message
	MessagesByType map[string]*Message

	// Subdictionaries holds FIX>=5.0 application dictionaries keyed by
	// their version string, present only on a FIXT transport Dictionary.
	Subdictionaries map[string]*Dictionary
}

// Options configures dictionary loading.
type Options struct {
	Strict            bool // report unused fields/components
	FlattenComponents bool // inline component members into their parent
}
