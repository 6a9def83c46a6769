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

// Package sqlite provides a SQLite-backed fixsession.MessageStore, keyed
// per session ID, using prepared statements for the hot insert path the
// same way the teacher's market-data database does for trade ticks.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/primefix/fixengine/fixsession"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	next_sender_seq INTEGER NOT NULL,
	next_target_seq INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	session_id TEXT NOT NULL,
	seq_num INTEGER NOT NULL,
	raw BLOB NOT NULL,
	PRIMARY KEY (session_id, seq_num)
);
`

const (
	upsertSessionQuery = `INSERT INTO sessions (session_id, next_sender_seq, next_target_seq) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET next_sender_seq=excluded.next_sender_seq, next_target_seq=excluded.next_target_seq`
	selectSessionQuery = `SELECT next_sender_seq, next_target_seq FROM sessions WHERE session_id = ?`
	insertMessageQuery = `INSERT OR REPLACE INTO messages (session_id, seq_num, raw) VALUES (?, ?, ?)`
	selectRangeQuery   = `SELECT seq_num, raw FROM messages WHERE session_id = ? AND seq_num BETWEEN ? AND ? ORDER BY seq_num ASC`
	deleteMessagesQuery = `DELETE FROM messages WHERE session_id = ?`
)

// Store is one session's handle onto a SQLite file, with its own *sql.DB.
// Several Stores opened on the same path share the file, each scoped by
// its own sessionID; the sequence-number counters are cached in memory and
// mirrored to the sessions table on every mutation so a crash recovers
// from the last durable write rather than from zero.
type Store struct {
	db        *sql.DB
	sessionID string

	stmtInsertMessage *sql.Stmt
	stmtUpsertSession *sql.Stmt

	nextSenderSeqNum int32
	nextTargetSeqNum int32
}

// Open creates (or attaches to) a SQLite database at path and returns a
// Store scoped to sessionID, loading any previously persisted sequence
// numbers for that session.
func Open(path, sessionID string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite message store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &Store{db: db, sessionID: sessionID, nextSenderSeqNum: 1, nextTargetSeqNum: 1}

	row := db.QueryRow(selectSessionQuery, sessionID)
	var sender, target int32
	switch err := row.Scan(&sender, &target); err {
	case nil:
		s.nextSenderSeqNum, s.nextTargetSeqNum = sender, target
	case sql.ErrNoRows:
		if _, err := db.Exec(upsertSessionQuery, sessionID, 1, 1); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed session row: %w", err)
		}
	default:
		_ = db.Close()
		return nil, fmt.Errorf("load session row: %w", err)
	}

	if s.stmtInsertMessage, err = db.Prepare(insertMessageQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare insert message: %w", err)
	}
	if s.stmtUpsertSession, err = db.Prepare(upsertSessionQuery); err != nil {
		_ = s.stmtInsertMessage.Close()
		_ = db.Close()
		return nil, fmt.Errorf("prepare upsert session: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements and the underlying database
// handle. Closing a Store does not close *sql.DB instances shared with
// other sessions beyond this one, since Close always operates on the
// handle this Store itself opened via Open.
func (s *Store) Close() error {
	_ = s.stmtInsertMessage.Close()
	_ = s.stmtUpsertSession.Close()
	return s.db.Close()
}

func (s *Store) NextSenderSeqNum() int32 { return s.nextSenderSeqNum }
func (s *Store) NextTargetSeqNum() int32 { return s.nextTargetSeqNum }

func (s *Store) SetNextSenderSeqNum(n int32) error {
	s.nextSenderSeqNum = n
	return s.persistSeqNums()
}

func (s *Store) SetNextTargetSeqNum(n int32) error {
	s.nextTargetSeqNum = n
	return s.persistSeqNums()
}

func (s *Store) IncrNextSenderSeqNum() error {
	s.nextSenderSeqNum++
	return s.persistSeqNums()
}

func (s *Store) IncrNextTargetSeqNum() error {
	s.nextTargetSeqNum++
	return s.persistSeqNums()
}

func (s *Store) persistSeqNums() error {
	_, err := s.stmtUpsertSession.Exec(s.sessionID, s.nextSenderSeqNum, s.nextTargetSeqNum)
	return err
}

// Store persists the raw outbound bytes for seqNum within this session.
func (s *Store) Store(seqNum int32, raw []byte) error {
	_, err := s.stmtInsertMessage.Exec(s.sessionID, seqNum, raw)
	return err
}

// Fetch returns every stored message for this session whose seq num
// falls within [begin, end], in ascending order.
func (s *Store) Fetch(begin, end int32) ([]fixsession.StoredMessage, error) {
	rows, err := s.db.Query(selectRangeQuery, s.sessionID, begin, end)
	if err != nil {
		return nil, fmt.Errorf("fetch range [%d,%d]: %w", begin, end, err)
	}
	defer rows.Close()

	var out []fixsession.StoredMessage
	for rows.Next() {
		var m fixsession.StoredMessage
		if err := rows.Scan(&m.SeqNum, &m.Raw); err != nil {
			return nil, fmt.Errorf("scan stored message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Reset deletes every stored message for this session and resets both
// sequence-number counters to 1.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(deleteMessagesQuery, s.sessionID); err != nil {
		return fmt.Errorf("clear stored messages: %w", err)
	}
	s.nextSenderSeqNum = 1
	s.nextTargetSeqNum = 1
	return s.persistSeqNums()
}

var _ fixsession.MessageStore = (*Store)(nil)
