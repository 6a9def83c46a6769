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

package fixsession

import (
	"testing"

	"github.com/primefix/fixengine/fixschema"
)

func TestIDString(t *testing.T) {
	id := ID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "SERVER"}
	if got, want := id.String(), "FIX.4.4:CLIENT->SERVER"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	id.Qualifier = "A"
	if got, want := id.String(), "FIX.4.4:CLIENT->SERVER:A"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStateLoggedOnRequiresBothFlags(t *testing.T) {
	s := NewState(true, NewNullStore())
	if s.LoggedOn() {
		t.Fatalf("expected not logged on initially")
	}
	s.LogonSent = true
	if s.LoggedOn() {
		t.Fatalf("expected not logged on with only LogonSent")
	}
	s.LogonReceived = true
	if !s.LoggedOn() {
		t.Fatalf("expected logged on once both flags set")
	}
}

func TestStateEnqueueAndTakePending(t *testing.T) {
	s := NewState(true, NewNullStore())
	msg := &fixschema.Message{}
	s.EnqueuePending(5, msg)
	got, ok := s.TakePending(5)
	if !ok || got != msg {
		t.Fatalf("expected to retrieve the enqueued message")
	}
	if _, ok := s.TakePending(5); ok {
		t.Fatalf("expected message to be removed after TakePending")
	}
}

func TestStateResetClearsFlagsAndStore(t *testing.T) {
	store := NewMemoryStore()
	if err := store.IncrNextSenderSeqNum(); err != nil {
		t.Fatalf("incr: %v", err)
	}
	s := NewState(true, store)
	s.LogonSent = true
	s.LogonReceived = true
	s.ResendRange = &ResendRange{Begin: 1, End: 5}
	s.EnqueuePending(3, &fixschema.Message{})

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.LogonSent || s.LogonReceived || s.ResendRange != nil {
		t.Fatalf("expected flags cleared after reset")
	}
	if len(s.Pending) != 0 {
		t.Fatalf("expected pending queue cleared after reset")
	}
	if store.NextSenderSeqNum() != 1 {
		t.Fatalf("expected store sequence numbers reset to 1")
	}
}
