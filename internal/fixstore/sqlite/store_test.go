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

package sqlite

import (
	"path/filepath"
	"testing"
)

func TestStoreSeqNumPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixstore.db")

	s, err := Open(dbPath, "FIX.4.4:CLIENT->SERVER")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.IncrNextSenderSeqNum(); err != nil {
		t.Fatalf("incr: %v", err)
	}
	if err := s.IncrNextSenderSeqNum(); err != nil {
		t.Fatalf("incr: %v", err)
	}
	if err := s.Store(1, []byte("8=FIX.4.4\x01")); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dbPath, "FIX.4.4:CLIENT->SERVER")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if got := reopened.NextSenderSeqNum(); got != 3 {
		t.Fatalf("expected sender seq num 3 after reopen, got %d", got)
	}
	msgs, err := reopened.Fetch(1, 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 1 || string(msgs[0].Raw) != "8=FIX.4.4\x01" {
		t.Fatalf("expected stored message to survive reopen, got %+v", msgs)
	}
}

func TestStoreScopesBySessionID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixstore.db")

	a, err := Open(dbPath, "sessionA")
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.Close()
	b, err := Open(dbPath, "sessionB")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()

	if err := a.IncrNextSenderSeqNum(); err != nil {
		t.Fatalf("incr a: %v", err)
	}
	if got := b.NextSenderSeqNum(); got != 1 {
		t.Fatalf("expected session b unaffected by session a, got %d", got)
	}
}

func TestStoreResetClearsMessagesAndSeqNums(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixstore.db")
	s, err := Open(dbPath, "sess")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Store(1, []byte("a")); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := s.IncrNextSenderSeqNum(); err != nil {
		t.Fatalf("incr: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.NextSenderSeqNum() != 1 || s.NextTargetSeqNum() != 1 {
		t.Fatalf("expected counters reset to 1")
	}
	msgs, err := s.Fetch(1, 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected messages cleared after reset, got %d", len(msgs))
	}
}

func TestStoreFetchReturnsAscendingOrder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fixstore.db")
	s, err := Open(dbPath, "sess")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for _, seq := range []int32{5, 2, 8} {
		if err := s.Store(seq, []byte{byte(seq)}); err != nil {
			t.Fatalf("store %d: %v", seq, err)
		}
	}
	msgs, err := s.Fetch(1, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 3 || msgs[0].SeqNum != 2 || msgs[1].SeqNum != 5 || msgs[2].SeqNum != 8 {
		t.Fatalf("expected ascending seq num order, got %+v", msgs)
	}
}
