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

import "sync"

// MessageStore is the contract the engine reads and writes outbound
// traffic through: sequence-number bookkeeping plus enough of the raw
// outbound history to answer a ResendRequest.
type MessageStore interface {
	// NextSenderSeqNum and NextTargetSeqNum return the next sequence
	// number to assign on our side and to expect on the peer's side.
	NextSenderSeqNum() int32
	NextTargetSeqNum() int32

	SetNextSenderSeqNum(n int32) error
	SetNextTargetSeqNum(n int32) error

	IncrNextSenderSeqNum() error
	IncrNextTargetSeqNum() error

	// Store persists the raw outbound bytes of message seqNum.
	Store(seqNum int32, raw []byte) error

	// Fetch returns the stored outbound messages whose seq num falls in
	// [begin, end] inclusive, in ascending seq-num order. A message that
	// was never stored (or has been evicted) is simply absent.
	Fetch(begin, end int32) ([]StoredMessage, error)

	// Reset clears every stored message and resets both counters to 1.
	Reset() error
}

// StoredMessage pairs a sequence number with its previously-serialized
// outbound bytes, as returned by MessageStore.Fetch.
type StoredMessage struct {
	SeqNum int32
	Raw    []byte
}

// NullStore tracks only the two sequence-number counters and discards
// every message handed to Store; Fetch always reports nothing stored, so
// a ResendRequest against a NullStore-backed session is always answered
// as a single gap-fill.
type NullStore struct {
	mu               sync.Mutex
	nextSenderSeqNum int32
	nextTargetSeqNum int32
}

// NewNullStore returns a NullStore with both counters starting at 1.
func NewNullStore() *NullStore {
	return &NullStore{nextSenderSeqNum: 1, nextTargetSeqNum: 1}
}

func (s *NullStore) NextSenderSeqNum() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSenderSeqNum
}

func (s *NullStore) NextTargetSeqNum() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextTargetSeqNum
}

func (s *NullStore) SetNextSenderSeqNum(n int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSenderSeqNum = n
	return nil
}

func (s *NullStore) SetNextTargetSeqNum(n int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTargetSeqNum = n
	return nil
}

func (s *NullStore) IncrNextSenderSeqNum() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSenderSeqNum++
	return nil
}

func (s *NullStore) IncrNextTargetSeqNum() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTargetSeqNum++
	return nil
}

func (s *NullStore) Store(int32, []byte) error { return nil }

func (s *NullStore) Fetch(int32, int32) ([]StoredMessage, error) { return nil, nil }

func (s *NullStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSenderSeqNum = 1
	s.nextTargetSeqNum = 1
	return nil
}

// MemoryStore is a mutex-guarded, map-backed MessageStore: every outbound
// message is kept in memory for the lifetime of the session, keyed by
// MsgSeqNum, mirroring the teacher's OrderStore pattern of a single
// sync.Mutex guarding a plain map rather than a ring buffer, since resend
// ranges need arbitrary historical lookups rather than only-the-newest-N.
type MemoryStore struct {
	mu               sync.Mutex
	nextSenderSeqNum int32
	nextTargetSeqNum int32
	messages         map[int32][]byte
}

// NewMemoryStore returns a MemoryStore with both counters starting at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextSenderSeqNum: 1,
		nextTargetSeqNum: 1,
		messages:         make(map[int32][]byte),
	}
}

func (s *MemoryStore) NextSenderSeqNum() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSenderSeqNum
}

func (s *MemoryStore) NextTargetSeqNum() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextTargetSeqNum
}

func (s *MemoryStore) SetNextSenderSeqNum(n int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSenderSeqNum = n
	return nil
}

func (s *MemoryStore) SetNextTargetSeqNum(n int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTargetSeqNum = n
	return nil
}

func (s *MemoryStore) IncrNextSenderSeqNum() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSenderSeqNum++
	return nil
}

func (s *MemoryStore) IncrNextTargetSeqNum() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTargetSeqNum++
	return nil
}

func (s *MemoryStore) Store(seqNum int32, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.messages[seqNum] = cp
	return nil
}

func (s *MemoryStore) Fetch(begin, end int32) ([]StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []StoredMessage
	for seq := begin; seq <= end; seq++ {
		if raw, ok := s.messages[seq]; ok {
			out = append(out, StoredMessage{SeqNum: seq, Raw: raw})
		}
	}
	return out, nil
}

func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make(map[int32][]byte)
	s.nextSenderSeqNum = 1
	s.nextTargetSeqNum = 1
	return nil
}
