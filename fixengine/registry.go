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

package fixengine

import (
	"sync"

	"github.com/primefix/fixengine/fixsession"
)

// Registry gates at most one live connection per SessionID: an acceptor
// consults it before handing a freshly-accepted connection off to a new
// Session, rejecting a second concurrent Logon attempt for a triple
// that's already registered.
type Registry struct {
	mu       sync.Mutex
	sessions map[fixsession.ID]*Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[fixsession.ID]*Session)}
}

// Register claims id for sess. It reports false, leaving the registry
// unchanged, if id is already claimed by any Session, sess included.
func (r *Registry) Register(id fixsession.ID, sess *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		return false
	}
	r.sessions[id] = sess
	return true
}

// Unregister releases id, but only if it is still claimed by sess — a
// stale unregister from a superseded connection must not evict the
// session that replaced it.
func (r *Registry) Unregister(id fixsession.ID, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[id]; ok && current == sess {
		delete(r.sessions, id)
	}
}

// Lookup returns the live Session for id, if any.
func (r *Registry) Lookup(id fixsession.ID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}
