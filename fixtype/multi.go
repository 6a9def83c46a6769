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

import "strings"

// MultipleCharValue is a space-separated sequence of single-character enum
// values (e.g. ExecInst). The element type is Char; elements are not
// checked against the field's enumeration.
type MultipleCharValue []Char

func (v MultipleCharValue) EncodeFIX() []byte {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = string(c.EncodeFIX())
	}
	return []byte(strings.Join(parts, " "))
}

func (v *MultipleCharValue) DecodeFIX(raw []byte) error {
	fields := strings.Fields(string(raw))
	out := make(MultipleCharValue, len(fields))
	for i, f := range fields {
		var c Char
		if err := c.DecodeFIX([]byte(f)); err != nil {
			return err
		}
		out[i] = c
	}
	*v = out
	return nil
}

// MultipleStringValue is a space-separated sequence of string enum values.
type MultipleStringValue []String

func (v MultipleStringValue) EncodeFIX() []byte {
	parts := make([]string, len(v))
	for i, s := range v {
		parts[i] = string(s)
	}
	return []byte(strings.Join(parts, " "))
}

func (v *MultipleStringValue) DecodeFIX(raw []byte) error {
	fields := strings.Fields(string(raw))
	out := make(MultipleStringValue, len(fields))
	for i, f := range fields {
		out[i] = String(f)
	}
	*v = out
	return nil
}
