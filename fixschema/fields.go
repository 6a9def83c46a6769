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

// Package fixschema is a runtime schema driver: a generic, ordered
// tag->value container plus a serializer/deserializer pair driven by a
// *fixdict.Dictionary, standing in for a compile-time code generator.
package fixschema

import "github.com/primefix/fixengine/fixtype"

// Fields is an ordered tag->value container. A scalar member's value is a
// fixtype.FieldValue; a repeating group member's value is []*Fields, one
// element per group instance. order records the sequence tags were set in;
// serialization follows the dictionary's declaration order, not this one.
type Fields struct {
	order  []int32
	values map[int32]any
}

// NewFields returns an empty Fields container.
func NewFields() *Fields {
	return &Fields{values: make(map[int32]any)}
}

// HasTag reports whether tag has already been set on this container.
func (f *Fields) HasTag(tag int32) bool {
	_, ok := f.values[tag]
	return ok
}

// SetField stores a scalar value under tag, recording insertion order.
func (f *Fields) SetField(tag int32, v fixtype.FieldValue) {
	if _, dup := f.values[tag]; !dup {
		f.order = append(f.order, tag)
	}
	f.values[tag] = v
}

// Field returns the scalar value stored under tag, if any.
func (f *Fields) Field(tag int32) (fixtype.FieldValue, bool) {
	v, ok := f.values[tag]
	if !ok {
		return nil, false
	}
	fv, ok := v.(fixtype.FieldValue)
	return fv, ok
}

// SetGroup stores a repeating group's instances under its count field tag.
func (f *Fields) SetGroup(tag int32, instances []*Fields) {
	if _, dup := f.values[tag]; !dup {
		f.order = append(f.order, tag)
	}
	f.values[tag] = instances
}

// Group returns the repeating group instances stored under tag, if any.
func (f *Fields) Group(tag int32) ([]*Fields, bool) {
	v, ok := f.values[tag]
	if !ok {
		return nil, false
	}
	g, ok := v.([]*Fields)
	return g, ok
}

// Order returns the tags in the order they were set.
func (f *Fields) Order() []int32 {
	return f.order
}
