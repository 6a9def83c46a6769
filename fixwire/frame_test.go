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
	"testing"

	"github.com/primefix/fixengine/fixdict"
	"github.com/primefix/fixengine/fixschema"
	"github.com/primefix/fixengine/fixtype"
)

func mustLoadFIX44(t *testing.T) *fixdict.Dictionary {
	t.Helper()
	dict, err := fixdict.Load([]string{"../testdata/fix44.xml"}, fixdict.Options{})
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}
	return dict
}

func strField(s string) fixtype.FieldValue {
	v := fixtype.String(s)
	return &v
}

func seqField(n uint32) fixtype.FieldValue {
	v := fixtype.SeqNum(n)
	return &v
}

func charField(c byte) fixtype.FieldValue {
	v := fixtype.Char(c)
	return &v
}

func qtyField(s string) fixtype.FieldValue {
	var v fixtype.Qty
	if err := v.DecodeFIX([]byte(s)); err != nil {
		panic(err)
	}
	return &v
}

func tsField(t *testing.T, s string) fixtype.FieldValue {
	t.Helper()
	var v fixtype.UtcTimestamp
	if err := v.DecodeFIX([]byte(s)); err != nil {
		t.Fatalf("decode timestamp: %v", err)
	}
	return &v
}

func heartbeat(t *testing.T, dict *fixdict.Dictionary) *fixschema.Message {
	t.Helper()
	msg := fixschema.NewMessage(dict.MessagesByType["0"])
	msg.Header.SetField(49, strField("CLIENT"))
	msg.Header.SetField(56, strField("SERVER"))
	msg.Header.SetField(34, seqField(1))
	msg.Header.SetField(52, tsField(t, "20240101-00:00:00"))
	return msg
}

func buildFrame(t *testing.T, dict *fixdict.Dictionary) []byte {
	t.Helper()
	enc := NewEncoder(dict)
	raw, err := enc.Encode(heartbeat(t, dict))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return raw
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dict := mustLoadFIX44(t)
	raw := buildFrame(t, dict)

	if !bytes.HasPrefix(raw, []byte("8=FIX.4.4\x019=")) {
		t.Fatalf("unexpected frame prefix: %q", raw)
	}
	if !bytes.Contains(raw, []byte("35=0\x01")) {
		t.Fatalf("expected MsgType 0 (Heartbeat) in frame: %q", raw)
	}

	dec := NewDecoder(dict)
	frame := dec.Decode(raw)
	if frame.Status != StatusOK {
		t.Fatalf("expected StatusOK, got %v (reject=%v)", frame.Status, frame.Reject)
	}
	if frame.Consumed != len(raw) {
		t.Fatalf("expected to consume entire frame (%d), consumed %d", len(raw), frame.Consumed)
	}
	senderCompID, ok := frame.Message.Header.Field(49)
	if !ok || string(senderCompID.EncodeFIX()) != "CLIENT" {
		t.Fatalf("expected SenderCompID CLIENT, got %v", senderCompID)
	}
}

func TestDecodeIncompleteWaitsForMoreBytes(t *testing.T) {
	dict := mustLoadFIX44(t)
	raw := buildFrame(t, dict)

	dec := NewDecoder(dict)
	for i := 1; i < len(raw); i++ {
		frame := dec.Decode(raw[:i])
		if frame.Status != StatusIncomplete {
			t.Fatalf("prefix length %d: expected StatusIncomplete, got %v", i, frame.Status)
		}
	}
	full := dec.Decode(raw)
	if full.Status != StatusOK {
		t.Fatalf("expected full frame to parse, got %v", full.Status)
	}
}

func TestDecodeDetectsChecksumMismatch(t *testing.T) {
	dict := mustLoadFIX44(t)
	raw := buildFrame(t, dict)

	// Corrupt a body byte without touching the trailer, so framing still
	// finds 8=/9=/10= but the checksum no longer matches.
	corrupt := bytes.Replace(raw, []byte("CLIENT"), []byte("CLIENX"), 1)

	dec := NewDecoder(dict)
	frame := dec.Decode(corrupt)
	if frame.Status != StatusGarbled {
		t.Fatalf("expected StatusGarbled on checksum mismatch, got %v", frame.Status)
	}
	if frame.Consumed != 1 {
		t.Fatalf("expected garbled decode to advance by 1 byte, consumed %d", frame.Consumed)
	}
}

func TestDecodeSkipsLeadingGarbageBeforeBeginString(t *testing.T) {
	dict := mustLoadFIX44(t)
	raw := buildFrame(t, dict)
	withGarbage := append([]byte("\x00\x00junk"), raw...)

	dec := NewDecoder(dict)
	first := dec.Decode(withGarbage)
	if first.Status != StatusGarbled {
		t.Fatalf("expected StatusGarbled for leading garbage, got %v", first.Status)
	}
	if first.Consumed != len("\x00\x00junk") {
		t.Fatalf("expected to consume garbage prefix length %d, got %d", len("\x00\x00junk"), first.Consumed)
	}
	second := dec.Decode(withGarbage[first.Consumed:])
	if second.Status != StatusOK {
		t.Fatalf("expected aligned re-decode to succeed, got %v", second.Status)
	}
}

func TestDecodeRejectsUnknownMsgType(t *testing.T) {
	dict := mustLoadFIX44(t)
	body := "35=Z\x0149=CLIENT\x0156=SERVER\x0134=1\x0152=20240101-00:00:00\x01"
	raw := frameWithChecksum(t, dict, body)

	dec := NewDecoder(dict)
	frame := dec.Decode(raw)
	if frame.Status != StatusReject {
		t.Fatalf("expected StatusReject for unknown MsgType, got %v", frame.Status)
	}
	if frame.Reject == nil || frame.Reject.Reason != fixschema.ReasonInvalidMsgType {
		t.Fatalf("expected InvalidMsgType, got %v", frame.Reject)
	}
	if frame.Consumed != len(raw) {
		t.Fatalf("expected reject to still consume the full frame, consumed %d of %d", frame.Consumed, len(raw))
	}
}

func TestDecodeRejectsSchemaViolationCitingMsgSeqNum(t *testing.T) {
	dict := mustLoadFIX44(t)
	// Heartbeat with a required header field (SenderCompID) missing.
	body := "35=0\x0156=SERVER\x0134=7\x0152=20240101-00:00:00\x01"
	raw := frameWithChecksum(t, dict, body)

	dec := NewDecoder(dict)
	frame := dec.Decode(raw)
	if frame.Status != StatusReject {
		t.Fatalf("expected StatusReject, got %v", frame.Status)
	}
	if frame.MsgSeqNum != 7 {
		t.Fatalf("expected MsgSeqNum 7 to be cited even on reject, got %d", frame.MsgSeqNum)
	}
	if frame.Reject == nil || frame.Reject.Reason != fixschema.ReasonRequiredTagMissing {
		t.Fatalf("expected RequiredTagMissing, got %v", frame.Reject)
	}
}

func mustLoadFIXT(t *testing.T) *fixdict.Dictionary {
	t.Helper()
	dict, err := fixdict.Load([]string{"../testdata/fixt11.xml", "../testdata/fix50sp2.xml"}, fixdict.Options{})
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}
	return dict
}

// TestDecodeRoutesToApplicationSubdictionary covers a FIXT transport
// Decoder parsing a MsgType that exists only in the loaded FIX.5.0SP2
// application dictionary, not on the transport dictionary itself.
func TestDecodeRoutesToApplicationSubdictionary(t *testing.T) {
	dict := mustLoadFIXT(t)
	app, ok := dict.Subdictionaries["FIX.5.0SP2"]
	if !ok {
		t.Fatalf("expected FIX.5.0SP2 subdictionary")
	}

	order := fixschema.NewMessage(app.MessagesByType["D"])
	order.Header.SetField(49, strField("CLIENT"))
	order.Header.SetField(56, strField("SERVER"))
	order.Header.SetField(34, seqField(1))
	order.Header.SetField(52, tsField(t, "20240101-00:00:00"))
	order.Body.SetField(11, strField("ORD1"))
	order.Body.SetField(60000, strField("AAPL"))
	order.Body.SetField(54, charField('1'))
	order.Body.SetField(38, qtyField("100"))
	order.Body.SetField(40, charField('2'))

	// Encoding against the transport dictionary works even though order.Def
	// came from the application subdictionary: Serialize only reads dict
	// for Header/Trailer, and pulls body members from order.Def itself.
	enc := NewEncoder(dict)
	raw, err := enc.Encode(order)
	if err != nil {
		t.Fatalf("encode application message: %v", err)
	}
	if !bytes.Contains(raw, []byte("35=D\x01")) {
		t.Fatalf("expected MsgType D in frame: %q", raw)
	}

	dec := NewDecoder(dict)
	frame := dec.Decode(raw)
	if frame.Status != StatusOK {
		t.Fatalf("expected StatusOK, got %v (reject=%v)", frame.Status, frame.Reject)
	}
	clOrdID, ok := frame.Message.Body.Field(11)
	if !ok || string(clOrdID.EncodeFIX()) != "ORD1" {
		t.Fatalf("expected ClOrdID ORD1, got %v", clOrdID)
	}
}

// frameWithChecksum wraps a hand-built body with BeginString/BodyLength and
// a correctly computed CheckSum, mirroring what Encoder.Encode does, for
// tests that need a malformed body the Encoder itself would refuse to emit.
func frameWithChecksum(t *testing.T, dict *fixdict.Dictionary, body string) []byte {
	t.Helper()
	var mid bytes.Buffer
	mid.WriteString(body)

	var frame bytes.Buffer
	frame.WriteString("8=")
	frame.WriteString(dict.Version.String())
	frame.WriteByte(soh)
	frame.WriteString(fmt.Sprintf("9=%d", mid.Len()))
	frame.WriteByte(soh)
	frame.Write(mid.Bytes())

	cs := checksum(frame.Bytes())
	frame.WriteString(fmt.Sprintf("10=%03d", cs))
	frame.WriteByte(soh)
	return frame.Bytes()
}
