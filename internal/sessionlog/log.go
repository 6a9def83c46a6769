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

// Package sessionlog wraps zerolog with a per-session sub-logger and an
// enable flag, generalizing the enable/disable leveled-logger shape to a
// structured logger keyed by session ID rather than a single global log.
package sessionlog

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Logger is a session-scoped structured logger. Output can be disabled
// entirely (LogMode(false)) without tearing down the underlying writer,
// for operator consoles that want to mute a noisy session.
type Logger struct {
	base zerolog.Logger
	has  atomic.Bool
}

// New returns a Logger that tags every event with sessionID, writing to
// os.Stdout by default.
func New(sessionID string) *Logger {
	l := &Logger{base: zerolog.New(os.Stdout).With().Timestamp().Str("session", sessionID).Logger()}
	l.has.Store(true)
	return l
}

// LogMode enables or disables output.
func (l *Logger) LogMode(enable bool) { l.has.Store(enable) }

func (l *Logger) Debug() *zerolog.Event {
	if !l.has.Load() {
		return nil
	}
	return l.base.Debug()
}

func (l *Logger) Info() *zerolog.Event {
	if !l.has.Load() {
		return nil
	}
	return l.base.Info()
}

func (l *Logger) Warn() *zerolog.Event {
	if !l.has.Load() {
		return nil
	}
	return l.base.Warn()
}

func (l *Logger) Error() *zerolog.Event {
	if !l.has.Load() {
		return nil
	}
	return l.base.Error()
}
