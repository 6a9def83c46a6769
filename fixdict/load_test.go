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
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadFIX44(t *testing.T) {
	dict, err := Load([]string{"../testdata/fix44.xml"}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if dict.Version.String() != "FIX.4.4" {
		t.Fatalf("got version %s", dict.Version.String())
	}
	if dict.Header == nil || dict.Trailer == nil {
		t.Fatalf("expected header/trailer to be populated")
	}
	if len(dict.Header.Members) < 3 {
		t.Fatalf("header too short: %d members", len(dict.Header.Members))
	}
	msg, ok := dict.MessagesByType["D"]
	if !ok || msg.Name != "NewOrderSingle" {
		t.Fatalf("expected NewOrderSingle under msgtype D")
	}
	var sawComponent, sawGroup bool
	for _, m := range msg.Members {
		switch m.Kind {
		case MemberComponent:
			sawComponent = true
			if m.Component.Name != "Instrument" {
				t.Fatalf("unexpected component %s", m.Component.Name)
			}
		case MemberGroup:
			sawGroup = true
			if m.Group.Name != "Allocs" {
				t.Fatalf("expected group name Allocs (No-stripped), got %s", m.Group.Name)
			}
			if m.Group.CountField.Name != "NoAllocs" {
				t.Fatalf("expected count field NoAllocs, got %s", m.Group.CountField.Name)
			}
		}
	}
	if !sawComponent || !sawGroup {
		t.Fatalf("expected both a component and a group member on NewOrderSingle")
	}

	f, ok := dict.FieldsByTag[9]
	if !ok || f.Name != "BodyLength" {
		t.Fatalf("expected tag 9 to resolve to BodyLength")
	}
}

func TestLoadFIXTWithApplicationSubdictionary(t *testing.T) {
	dict, err := Load([]string{"../testdata/fixt11.xml", "../testdata/fix50sp2.xml"}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if dict.Version.String() != "FIXT.1.1" {
		t.Fatalf("got transport version %s", dict.Version.String())
	}
	if dict.Header == nil {
		t.Fatalf("expected transport header")
	}
	for _, msg := range dict.MessagesByName {
		if msg.Category != CategoryAdmin {
			t.Fatalf("expected all transport messages to be Admin, got %s on %s", msg.Category, msg.Name)
		}
	}
	app, ok := dict.Subdictionaries["FIX.5.0SP2"]
	if !ok {
		t.Fatalf("expected FIX.5.0SP2 subdictionary, got keys %v", keysOf(dict.Subdictionaries))
	}
	if app.Header != nil {
		t.Fatalf("application dictionary must not have a header")
	}
	if _, ok := app.MessagesByType["D"]; !ok {
		t.Fatalf("expected NewOrderSingle in application dictionary")
	}
	for _, msg := range app.MessagesByName {
		if msg.Category != CategoryApp {
			t.Fatalf("expected all application messages to be App, got %s on %s", msg.Category, msg.Name)
		}
	}
}

func keysOf(m map[string]*Dictionary) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

const cyclicDict = `<fix type="FIX" major="4" minor="4">
  <header>
    <field name="BeginString" required="Y"/>
    <field name="BodyLength" required="Y"/>
    <field name="MsgType" required="Y"/>
  </header>
  <trailer>
    <field name="CheckSum" required="Y"/>
  </trailer>
  <messages>
    <message name="Heartbeat" msgtype="0" msgcat="admin">
      <component name="A" required="N"/>
    </message>
  </messages>
  <components>
    <component name="A">
      <component name="B" required="N"/>
    </component>
    <component name="B">
      <component name="A" required="N"/>
    </component>
  </components>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
    <field number="9" name="BodyLength" type="LENGTH"/>
    <field number="10" name="CheckSum" type="STRING"/>
    <field number="35" name="MsgType" type="STRING"/>
  </fields>
</fix>`

func TestLoadDetectsCircularComponentReference(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "cyclic.xml", cyclicDict)
	_, err := Load([]string{p}, Options{})
	if err == nil {
		t.Fatalf("expected an error for circular component reference")
	}
	lerr, ok := err.(*LoadError)
	if !ok || lerr.Kind != ErrCircularReference {
		t.Fatalf("expected CircularReference, got %v", err)
	}
}

const duplicateFieldDict = `<fix type="FIX" major="4" minor="4">
  <header>
    <field name="BeginString" required="Y"/>
    <field name="BodyLength" required="Y"/>
    <field name="MsgType" required="Y"/>
  </header>
  <trailer>
    <field name="CheckSum" required="Y"/>
  </trailer>
  <messages>
    <message name="Heartbeat" msgtype="0" msgcat="admin">
      <field name="TestReqID" required="N"/>
    </message>
  </messages>
  <components/>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
    <field number="9" name="BodyLength" type="LENGTH"/>
    <field number="10" name="CheckSum" type="STRING"/>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="112" name="TestReqID" type="STRING"/>
    <field number="999" name="TestReqID" type="STRING"/>
  </fields>
</fix>`

func TestLoadRejectsDuplicateFieldName(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "dup.xml", duplicateFieldDict)
	_, err := Load([]string{p}, Options{})
	if err == nil {
		t.Fatalf("expected duplicate field error")
	}
	lerr, ok := err.(*LoadError)
	if !ok || lerr.Kind != ErrDuplicatedField {
		t.Fatalf("expected DuplicatedField, got %v", err)
	}
}

// singleGroupMemberDict exercises the QuickFIX naming exception: a
// component whose only member is a repeating group inherits the
// component's own name rather than the group's No-stripped name.
const singleGroupMemberDict = `<fix type="FIX" major="4" minor="4">
  <header>
    <field name="BeginString" required="Y"/>
    <field name="BodyLength" required="Y"/>
    <field name="MsgType" required="Y"/>
  </header>
  <trailer>
    <field name="CheckSum" required="Y"/>
  </trailer>
  <messages>
    <message name="Heartbeat" msgtype="0" msgcat="admin">
      <component name="Parties" required="N"/>
    </message>
  </messages>
  <components>
    <component name="Parties">
      <group name="NoPartyIDs" required="N">
        <field name="PartyID" required="Y"/>
      </group>
    </component>
  </components>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
    <field number="9" name="BodyLength" type="LENGTH"/>
    <field number="10" name="CheckSum" type="STRING"/>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="453" name="NoPartyIDs" type="NUMINGROUP"/>
    <field number="448" name="PartyID" type="STRING"/>
  </fields>
</fix>`

func TestLoadSingleGroupMemberComponentNamingException(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "parties.xml", singleGroupMemberDict)
	dict, err := Load([]string{p}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g, ok := dict.Groups["Parties"]
	if !ok {
		t.Fatalf("expected group registered under component name Parties, got %v", keysOfGroups(dict.Groups))
	}
	if g.CountField.Name != "NoPartyIDs" {
		t.Fatalf("expected count field NoPartyIDs, got %s", g.CountField.Name)
	}
	if _, stillStripped := dict.Groups["PartyIDs"]; stillStripped {
		t.Fatalf("did not expect group to remain registered under stripped name PartyIDs")
	}
}

func keysOfGroups(m map[string]*Group) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestLoadStrictRejectsUnusedField(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "unused.xml", `<fix type="FIX" major="4" minor="4">
  <header>
    <field name="BeginString" required="Y"/>
    <field name="BodyLength" required="Y"/>
    <field name="MsgType" required="Y"/>
  </header>
  <trailer>
    <field name="CheckSum" required="Y"/>
  </trailer>
  <messages>
    <message name="Heartbeat" msgtype="0" msgcat="admin">
      <field name="TestReqID" required="N"/>
    </message>
  </messages>
  <components/>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
    <field number="9" name="BodyLength" type="LENGTH"/>
    <field number="10" name="CheckSum" type="STRING"/>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="112" name="TestReqID" type="STRING"/>
    <field number="1" name="Account" type="STRING"/>
  </fields>
</fix>`)
	_, err := Load([]string{p}, Options{Strict: true})
	if err == nil {
		t.Fatalf("expected unused field error in strict mode")
	}
	lerr, ok := err.(*LoadError)
	if !ok || lerr.Kind != ErrUnusedField {
		t.Fatalf("expected UnusedField, got %v", err)
	}

	if _, err := Load([]string{p}, Options{}); err != nil {
		t.Fatalf("non-strict load should tolerate the unused field: %v", err)
	}
}

func TestLoadDirRejectsMixedLegacyAndFIXTFragments(t *testing.T) {
	// testdata holds a legacy FIX.4.4 document alongside a FIXT.1.1
	// transport document, which Load refuses to merge into one set.
	_, err := LoadDir("../testdata", Options{})
	if err == nil {
		t.Fatalf("expected LoadDir to reject a directory mixing legacy and FIXT documents")
	}
	if _, ok := err.(*LoadError); !ok {
		t.Fatalf("expected a *LoadError, got %v", err)
	}
}

func TestLoadDirLoadsFIXTPair(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, "../testdata/fixt11.xml", filepath.Join(dir, "fixt11.xml"))
	copyFile(t, "../testdata/fix50sp2.xml", filepath.Join(dir, "fix50sp2.xml"))
	dict, err := LoadDir(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(dict.Subdictionaries) != 1 {
		t.Fatalf("expected one application subdictionary, got %d", len(dict.Subdictionaries))
	}
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	b, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read %s: %v", src, err)
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", dst, err)
	}
}
