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

package fixdict

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/primefix/fixengine/fixtype"
)

// Load parses one or more FIX/FIXT XML dictionary documents and returns a
// validated Dictionary with every cross-reference resolved. See package
// doc and spec for the exact algorithm and error taxonomy.
func Load(paths []string, opts Options) (*Dictionary, error) {
	var fixtDoc *rawDoc
	var fixtPath string
	var appDocs []*rawDoc
	var legacyDoc *rawDoc
	var legacyPath string

	for _, p := range paths {
		doc, err := parseFile(p)
		if err != nil {
			return nil, err
		}
		ver, err := doc.version()
		if err != nil {
			return nil, err
		}
		switch {
		case ver.Type == "FIXT":
			if fixtDoc != nil {
				return nil, errf(ErrIncompatibleVersion, p, "more than one FIXT transport document")
			}
			fixtDoc = doc
			fixtPath = p
		case ver.Type == "FIX" && ver.Major >= 5:
			appDocs = append(appDocs, doc)
		default:
			if legacyDoc != nil {
				return nil, errf(ErrIncompatibleVersion, p, "more than one legacy FIX document")
			}
			legacyDoc = doc
			legacyPath = p
		}
	}

	switch {
	case fixtDoc != nil:
		if len(appDocs) == 0 {
			return nil, errf(ErrIncompatibleVersion, fixtPath, "FIXT transport document with no application dictionary")
		}
		if legacyDoc != nil {
			return nil, errf(ErrIncompatibleVersion, legacyPath, "legacy FIX document mixed with FIXT transport")
		}
		transport, err := build(fixtDoc, opts, constraintAdminOnly)
		if err != nil {
			return nil, err
		}
		transport.Subdictionaries = make(map[string]*Dictionary, len(appDocs))
		for _, ad := range appDocs {
			appDict, err := build(ad, opts, constraintAppOnly)
			if err != nil {
				return nil, err
			}
			transport.Subdictionaries[appDict.Version.String()] = appDict
		}
		return transport, nil

	case legacyDoc != nil:
		if len(appDocs) != 0 {
			return nil, errf(ErrIncompatibleVersion, legacyPath, "legacy FIX document mixed with a FIX>=5.0 application document")
		}
		return build(legacyDoc, opts, constraintNone)

	case len(appDocs) == 1:
		// A lone FIX>=5.0 document with no FIXT carrier: load it standalone.
		return build(appDocs[0], opts, constraintNone)

	default:
		return nil, errf(ErrUnknownVersion, "", "no loadable dictionary document found")
	}
}

// LoadDir loads every *.xml file in dir as a single dictionary document set,
// matching easyfix-dictionary's directory-of-fragments loading mode.
func LoadDir(dir string, opts Options) (*Dictionary, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, err
	}
	return Load(matches, opts)
}

func parseFile(path string) (*rawDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseXML(f)
}

type categoryConstraint int

const (
	constraintNone categoryConstraint = iota
	constraintAdminOnly
	constraintAppOnly
)

// builder holds the mutable state threaded through one document's resolve
// pass: the dictionary under construction, the raw component lookup table,
// and the memoization/cycle-detection sets used by resolveComponent.
type builder struct {
	opts Options
	dict *Dictionary

	rawComponents map[string]*rawComponent
	resolving     map[string]bool

	usedFields     map[string]bool
	usedComponents map[string]bool
}

func build(doc *rawDoc, opts Options, constraint categoryConstraint) (*Dictionary, error) {
	ver, err := doc.version()
	if err != nil {
		return nil, err
	}

	b := &builder{
		opts: opts,
		dict: &Dictionary{
			Version:        ver,
			FieldsByName:   make(map[string]*Field),
			FieldsByTag:    make(map[int32]*Field),
			Components:     make(map[string]*Component),
			Groups:         make(map[string]*Group),
			MessagesByName: make(map[string]*Message),
			MessagesByType: make(map[string]*Message),
		},
		rawComponents:  make(map[string]*rawComponent),
		resolving:      make(map[string]bool),
		usedFields:     make(map[string]bool),
		usedComponents: make(map[string]bool),
	}

	if err := b.installFields(doc.Fields); err != nil {
		return nil, err
	}
	for i := range doc.Components {
		c := &doc.Components[i]
		if _, dup := b.rawComponents[c.Name]; dup {
			return nil, errf(ErrDuplicatedComponent, c.Name, "")
		}
		b.rawComponents[c.Name] = c
	}

	isLegacyOrTransport := ver.Type == "FIXT" || (ver.Type == "FIX" && ver.Major < 5)

	if isLegacyOrTransport {
		if doc.Header == nil || len(doc.Header.Members) == 0 {
			return nil, errf(ErrEmptyContainer, "header", "")
		}
		if doc.Trailer == nil || len(doc.Trailer.Members) == 0 {
			return nil, errf(ErrEmptyContainer, "trailer", "")
		}
		header, err := b.resolveComponentBody("Header", doc.Header.Members)
		if err != nil {
			return nil, err
		}
		if err := validateHeaderOrder(header); err != nil {
			return nil, err
		}
		trailer, err := b.resolveComponentBody("Trailer", doc.Trailer.Members)
		if err != nil {
			return nil, err
		}
		if err := validateTrailerOrder(trailer); err != nil {
			return nil, err
		}
		b.dict.Header = &Component{Name: "Header", Members: header}
		b.dict.Trailer = &Component{Name: "Trailer", Members: trailer}
	} else {
		if doc.Header != nil && len(doc.Header.Members) != 0 {
			return nil, errf(ErrIncompatibleVersion, "header", "FIX>=5.0 application dictionary must not declare a header")
		}
		if doc.Trailer != nil && len(doc.Trailer.Members) != 0 {
			return nil, errf(ErrIncompatibleVersion, "trailer", "FIX>=5.0 application dictionary must not declare a trailer")
		}
	}

	for i := range doc.Components {
		c := &doc.Components[i]
		if _, err := b.resolveComponentByName(c.Name); err != nil {
			return nil, err
		}
	}

	for _, rm := range doc.Messages {
		if err := b.installMessage(rm, constraint); err != nil {
			return nil, err
		}
	}

	if opts.Strict {
		for name := range b.dict.FieldsByName {
			if !b.usedFields[name] {
				return nil, errf(ErrUnusedField, name, "")
			}
		}
		for name := range b.dict.Components {
			if !b.usedComponents[name] {
				return nil, errf(ErrUnusedComponent, name, "")
			}
		}
	}

	if opts.FlattenComponents {
		b.flattenComponents()
	}

	return b.dict, nil
}

func (b *builder) installFields(raw []rawField) error {
	for _, rf := range raw {
		if _, dup := b.dict.FieldsByName[rf.Name]; dup {
			return errf(ErrDuplicatedField, rf.Name, "")
		}
		tag := int32(rf.Number)
		if _, dup := b.dict.FieldsByTag[tag]; dup {
			return errf(ErrDuplicatedField, rf.Name, "tag %d already used", tag)
		}
		kind, ok := basicTypeKind(rf.Type)
		if !ok {
			kind = fixtype.KindString
		}
		f := &Field{Tag: tag, Name: rf.Name, Kind: kind}
		for _, v := range rf.Values {
			f.Enum = append(f.Enum, EnumValue{Value: v.Enum, Description: v.Description})
		}
		b.dict.FieldsByName[rf.Name] = f
		b.dict.FieldsByTag[tag] = f
	}
	linkCustomLengthPairs(raw, b.dict)
	return nil
}

// linkCustomLengthPairs wires a Length field to the Data/XmlData field that
// immediately follows it in the <fields> declaration order, per spec §4.2.
func linkCustomLengthPairs(raw []rawField, dict *Dictionary) {
	for i := 0; i+1 < len(raw); i++ {
		cur, next := raw[i], raw[i+1]
		curField := dict.FieldsByName[cur.Name]
		nextField := dict.FieldsByName[next.Name]
		if curField.Kind == fixtype.KindLength && (nextField.Kind == fixtype.KindData || nextField.Kind == fixtype.KindXmlData) {
			curField.LengthFor = nextField
		}
	}
}

func (b *builder) resolveComponentByName(name string) (*Component, error) {
	if c, ok := b.dict.Components[name]; ok {
		return c, nil
	}
	if b.resolving[name] {
		return nil, errf(ErrCircularReference, name, "component reference cycle")
	}
	raw, ok := b.rawComponents[name]
	if !ok {
		return nil, errf(ErrUnknownComponent, name, "")
	}
	b.resolving[name] = true
	members, err := b.resolveComponentBody(name, raw.Members)
	delete(b.resolving, name)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, errf(ErrEmptyContainer, name, "")
	}
	comp := &Component{Name: name, Members: members}
	b.dict.Components[name] = comp
	return comp, nil
}

// resolveComponentBody resolves a component's own member list and applies
// the QuickFIX single-group-member naming exception: if the component has
// exactly one member and it is a group, that group inherits the
// component's name instead of its count field's stripped name.
func (b *builder) resolveComponentBody(ownerName string, raw []rawMember) ([]*Member, error) {
	members, err := b.resolveContainer(raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 1 && len(members) == 1 && members[0].Kind == MemberGroup {
		g := members[0].Group
		if g.Name != ownerName {
			if _, already := b.dict.Groups[g.Name]; already {
				delete(b.dict.Groups, g.Name)
			}
			g.Name = ownerName
			if existing, dup := b.dict.Groups[ownerName]; dup && existing != g {
				return nil, errf(ErrDuplicatedGroup, ownerName, "")
			}
			b.dict.Groups[ownerName] = g
		}
	}
	return members, nil
}

func (b *builder) resolveContainer(raw []rawMember) ([]*Member, error) {
	members := make([]*Member, 0, len(raw))
	for _, rm := range raw {
		m, err := b.resolveMember(rm)
		if err != nil {
			return nil, err
		}
		if m != nil {
			members = append(members, m)
		}
	}
	return members, nil
}

func (b *builder) resolveMember(rm rawMember) (*Member, error) {
	var required bool
	switch rm.Required {
	case "", "N":
		required = false
	case "Y":
		required = true
	default:
		return nil, errf(ErrInvalidRequiredField, rm.Name, "required=%q", rm.Required)
	}

	switch rm.XMLName.Local {
	case "field":
		f, ok := b.dict.FieldsByName[rm.Name]
		if !ok {
			return nil, errf(ErrUnknownField, rm.Name, "")
		}
		b.usedFields[rm.Name] = true
		return &Member{Kind: MemberField, Field: f, Required: required}, nil

	case "component":
		c, err := b.resolveComponentByName(rm.Name)
		if err != nil {
			return nil, err
		}
		b.usedComponents[rm.Name] = true
		return &Member{Kind: MemberComponent, Component: c, Required: required}, nil

	case "group":
		countField, ok := b.dict.FieldsByName[rm.Name]
		if !ok {
			return nil, errf(ErrUnknownField, rm.Name, "")
		}
		b.usedFields[rm.Name] = true
		groupName := strings.TrimPrefix(rm.Name, "No")
		if groupName == "" {
			groupName = rm.Name
		}
		bodyMembers, err := b.resolveContainer(rm.Children)
		if err != nil {
			return nil, err
		}
		if len(bodyMembers) == 0 {
			return nil, errf(ErrEmptyContainer, groupName, "")
		}
		if existing, ok := b.dict.Groups[groupName]; ok {
			if existing.CountField.Tag != countField.Tag {
				return nil, errf(ErrDuplicatedGroup, groupName, "redefined with a different count field")
			}
			return &Member{Kind: MemberGroup, Group: existing, Required: required}, nil
		}
		g := &Group{Name: groupName, CountField: countField, Members: bodyMembers}
		b.dict.Groups[groupName] = g
		return &Member{Kind: MemberGroup, Group: g, Required: required}, nil

	default:
		// Unknown child element (comments, extensions): ignore.
		return nil, nil
	}
}

func (b *builder) installMessage(rm rawMessage, constraint categoryConstraint) error {
	if _, dup := b.dict.MessagesByName[rm.Name]; dup {
		return errf(ErrDuplicatedMessageName, rm.Name, "")
	}
	if _, dup := b.dict.MessagesByType[rm.MsgType]; dup {
		return errf(ErrDuplicatedMessageType, rm.MsgType, "")
	}
	category := CategoryApp
	if strings.EqualFold(rm.MsgCat, "admin") {
		category = CategoryAdmin
	}
	switch constraint {
	case constraintAdminOnly:
		if category != CategoryAdmin {
			return errf(ErrUnexpectedMessageCategory, rm.Name, "FIXT transport messages must all be Admin")
		}
	case constraintAppOnly:
		if category != CategoryApp {
			return errf(ErrUnexpectedMessageCategory, rm.Name, "FIX>=5.0 application messages must all be App")
		}
	}
	members, err := b.resolveContainer(rm.Members)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return errf(ErrEmptyMessage, rm.Name, "")
	}
	msg := &Message{Name: rm.Name, MsgType: rm.MsgType, Category: category, Members: members}
	b.dict.MessagesByName[rm.Name] = msg
	b.dict.MessagesByType[rm.MsgType] = msg
	return nil
}

func validateHeaderOrder(members []*Member) error {
	wantTags := []int32{8, 9, 35}
	if len(members) < 3 {
		return errf(ErrInvalidRequiredField, "header", "must start with BeginString/BodyLength/MsgType")
	}
	for i, tag := range wantTags {
		if members[i].Kind != MemberField || members[i].Field.Tag != tag {
			return errf(ErrInvalidRequiredField, "header", "position %d must be tag %d", i, tag)
		}
	}
	return nil
}

func validateTrailerOrder(members []*Member) error {
	last := members[len(members)-1]
	if last.Kind != MemberField || last.Field.Tag != 10 {
		return errf(ErrInvalidRequiredField, "trailer", "must end with CheckSum(10)")
	}
	return nil
}
