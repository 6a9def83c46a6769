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

import "testing"

// flattenDict nests a required component inside an optional component
// (Instrument/InstrumentExtension) and a group (NoPartyIDs) alongside, so
// flattening must both inline two levels of components and leave the group
// referenced rather than expanded.
const flattenDict = `<fix type="FIX" major="4" minor="4">
  <header>
    <field name="BeginString" required="Y"/>
    <field name="BodyLength" required="Y"/>
    <field name="MsgType" required="Y"/>
  </header>
  <trailer>
    <field name="CheckSum" required="Y"/>
  </trailer>
  <messages>
    <message name="NewOrderSingle" msgtype="D" msgcat="app">
      <field name="ClOrdID" required="Y"/>
      <component name="Instrument" required="N"/>
    </message>
  </messages>
  <components>
    <component name="Instrument">
      <field name="Symbol" required="Y"/>
      <component name="InstrumentExtension" required="N"/>
      <group name="NoPartyIDs" required="N">
        <field name="PartyID" required="Y"/>
      </group>
    </component>
    <component name="InstrumentExtension">
      <field name="CFICode" required="Y"/>
    </component>
  </components>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
    <field number="9" name="BodyLength" type="LENGTH"/>
    <field number="10" name="CheckSum" type="STRING"/>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="11" name="ClOrdID" type="STRING"/>
    <field number="55" name="Symbol" type="STRING"/>
    <field number="461" name="CFICode" type="STRING"/>
    <field number="453" name="NoPartyIDs" type="NUMINGROUP"/>
    <field number="448" name="PartyID" type="STRING"/>
  </fields>
</fix>`

func TestLoadWithoutFlattenKeepsComponentReferences(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "flatten.xml", flattenDict)
	dict, err := Load([]string{p}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	msg := dict.MessagesByType["D"]
	if len(msg.Members) != 2 {
		t.Fatalf("expected unflattened message to keep 2 top-level members, got %d", len(msg.Members))
	}
	if msg.Members[1].Kind != MemberComponent || msg.Members[1].Component.Name != "Instrument" {
		t.Fatalf("expected second member to still be the Instrument component reference")
	}
}

func TestLoadFlattenComponentsInlinesNestedComponentsAndKeepsGroups(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "flatten.xml", flattenDict)
	dict, err := Load([]string{p}, Options{FlattenComponents: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	msg := dict.MessagesByType["D"]
	if len(msg.Members) != 4 {
		t.Fatalf("expected 4 flattened members (ClOrdID, Symbol, CFICode, NoPartyIDs group), got %d: %v", len(msg.Members), memberNames(msg.Members))
	}

	for _, m := range msg.Members {
		if m.Kind == MemberComponent {
			t.Fatalf("expected no MemberComponent entries to survive flattening, found %s", m.Name())
		}
	}

	byName := make(map[string]*Member, len(msg.Members))
	for _, m := range msg.Members {
		byName[m.Name()] = m
	}

	clOrdID, ok := byName["ClOrdID"]
	if !ok || !clOrdID.Required {
		t.Fatalf("expected ClOrdID to stay required, got %+v", clOrdID)
	}

	symbol, ok := byName["Symbol"]
	if !ok {
		t.Fatalf("expected Symbol to be inlined from Instrument")
	}
	if symbol.Required {
		t.Fatalf("expected Symbol (required=Y inside required=N Instrument) to flatten to optional")
	}

	cfiCode, ok := byName["CFICode"]
	if !ok {
		t.Fatalf("expected CFICode to be inlined through two levels of components")
	}
	if cfiCode.Required {
		t.Fatalf("expected CFICode (required=Y inside two required=N components) to flatten to optional")
	}

	parties, ok := byName["PartyIDs"]
	if !ok {
		t.Fatalf("expected the NoPartyIDs group to survive as a group member named PartyIDs, got %v", memberNames(msg.Members))
	}
	if parties.Kind != MemberGroup {
		t.Fatalf("expected PartyIDs to remain a group member, not be expanded, got kind %v", parties.Kind)
	}
	if parties.Required {
		t.Fatalf("expected the group member's required flag to pick up Instrument's required=N")
	}
}

func memberNames(members []*Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name()
	}
	return out
}
