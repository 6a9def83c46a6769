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

import (
	"testing"
)

func TestIntRoundTrip(t *testing.T) {
	cases := []Int{0, 1, -1, 34, 999999999}
	for _, c := range cases {
		var got Int
		if err := got.DecodeFIX(c.EncodeFIX()); err != nil {
			t.Fatalf("decode %d: %v", c, err)
		}
		if got != c {
			t.Fatalf("round trip %d got %d", c, got)
		}
	}
}

func TestBooleanRoundTrip(t *testing.T) {
	for _, want := range []Boolean{true, false} {
		var got Boolean
		if err := got.DecodeFIX(want.EncodeFIX()); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != want {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	var b Boolean
	if err := b.DecodeFIX([]byte("X")); err == nil {
		t.Fatalf("expected error for invalid boolean")
	}
}

func TestFloatPreservesIngestedPrecision(t *testing.T) {
	cases := []string{"1.50000", "0.01", "100", "-3.140"}
	for _, raw := range cases {
		var f Float
		if err := f.DecodeFIX([]byte(raw)); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if string(f.EncodeFIX()) != raw {
			t.Fatalf("round trip %q got %q", raw, f.EncodeFIX())
		}
	}
}

func TestCountryValidatesAlpha2(t *testing.T) {
	var c Country
	if err := c.DecodeFIX([]byte("US")); err != nil {
		t.Fatalf("decode US: %v", err)
	}
	if err := c.DecodeFIX([]byte("USA")); err == nil {
		t.Fatalf("expected error for 3-letter country")
	}
}

func TestUtcTimestampRoundTripPrecision(t *testing.T) {
	cases := []string{
		"20240101-00:00:00",
		"20240101-00:00:00.123",
		"20240101-00:00:00.123456",
		"20240101-00:00:00.123456789",
	}
	for _, raw := range cases {
		var ts UtcTimestamp
		if err := ts.DecodeFIX([]byte(raw)); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if got := string(ts.EncodeFIX()); got != raw {
			t.Fatalf("round trip %q got %q", raw, got)
		}
	}
}

func TestUtcTimestampTruncatesPicoseconds(t *testing.T) {
	var ts UtcTimestamp
	if err := ts.DecodeFIX([]byte("20240101-00:00:00.123456789012")); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ts.Digits != 9 {
		t.Fatalf("expected 9 fractional digits after truncation, got %d", ts.Digits)
	}
	if got := string(ts.EncodeFIX()); got != "20240101-00:00:00.123456789" {
		t.Fatalf("got %q", got)
	}
}

func TestMultipleStringValueRoundTrip(t *testing.T) {
	var v MultipleStringValue
	if err := v.DecodeFIX([]byte("A B C")); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(v))
	}
	if string(v.EncodeFIX()) != "A B C" {
		t.Fatalf("got %q", v.EncodeFIX())
	}
}

func TestMonthYearWithDay(t *testing.T) {
	var m MonthYear
	if err := m.DecodeFIX([]byte("20240315")); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Year != 2024 || m.Month != 3 || m.Day != 15 {
		t.Fatalf("got %+v", m)
	}
	if got := string(m.EncodeFIX()); got != "20240315" {
		t.Fatalf("got %q", got)
	}
}
