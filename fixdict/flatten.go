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

// flattenComponents rewrites every component, group, message, header and
// trailer in the dictionary so that MemberComponent entries are replaced by
// their component's own members, inlined in place; MemberGroup entries are
// left as groups. A flattened member's Required flag is the logical AND of
// its own flag and the absorbed component member's flag, so a required
// field nested inside an optional component reads as optional afterward.
func (b *builder) flattenComponents() {
	done := make(map[string]bool)
	var ensureFlat func(c *Component)
	ensureFlat = func(c *Component) {
		if done[c.Name] {
			return
		}
		done[c.Name] = true
		c.Members = flattenMemberList(c.Members, ensureFlat)
	}

	for _, c := range b.dict.Components {
		ensureFlat(c)
	}
	for _, g := range b.dict.Groups {
		g.Members = flattenMemberList(g.Members, ensureFlat)
	}
	for _, m := range b.dict.MessagesByName {
		m.Members = flattenMemberList(m.Members, ensureFlat)
	}
	if b.dict.Header != nil {
		b.dict.Header.Members = flattenMemberList(b.dict.Header.Members, ensureFlat)
	}
	if b.dict.Trailer != nil {
		b.dict.Trailer.Members = flattenMemberList(b.dict.Trailer.Members, ensureFlat)
	}
}

// flattenMemberList returns members with every MemberComponent entry
// replaced by its component's own members (fully flattened first via
// ensureFlat, so no MemberComponent entries ever survive into the result).
// MemberField and MemberGroup entries pass through unchanged.
func flattenMemberList(members []*Member, ensureFlat func(*Component)) []*Member {
	out := make([]*Member, 0, len(members))
	for _, m := range members {
		if m.Kind != MemberComponent {
			out = append(out, m)
			continue
		}
		ensureFlat(m.Component)
		for _, inner := range m.Component.Members {
			out = append(out, &Member{
				Kind:      inner.Kind,
				Field:     inner.Field,
				Component: inner.Component,
				Group:     inner.Group,
				Required:  inner.Required && m.Required,
			})
		}
	}
	return out
}
