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

import "fmt"

// ErrKind is the closed taxonomy of dictionary load errors.
type ErrKind string

const (
	ErrUnknownField              ErrKind = "UnknownField"
	ErrUnknownComponent          ErrKind = "UnknownComponent"
	ErrDuplicatedField           ErrKind = "DuplicatedField"
	ErrDuplicatedComponent       ErrKind = "DuplicatedComponent"
	ErrDuplicatedGroup           ErrKind = "DuplicatedGroup"
	ErrDuplicatedMessageName     ErrKind = "DuplicatedMessageName"
	ErrDuplicatedMessageType     ErrKind = "DuplicatedMessageType"
	ErrEmptyContainer            ErrKind = "EmptyContainer"
	ErrEmptyMessage              ErrKind = "EmptyMessage"
	ErrUnexpectedMessageCategory ErrKind = "UnexpectedMessageCategory"
	ErrUnusedField               ErrKind = "UnusedField"
	ErrUnusedComponent           ErrKind = "UnusedComponent"
	ErrInvalidRequiredField      ErrKind = "InvalidRequiredField"
	ErrCircularReference         ErrKind = "CircularReference"
	ErrUnknownVersion            ErrKind = "UnknownVersion"
	ErrIncompatibleVersion       ErrKind = "IncompatibleVersion"
)

// LoadError is the error type returned by Load for every taxonomy member
// above; it carries enough context to locate the offending name.
type LoadError struct {
	Kind   ErrKind
	Name   string
	Detail string
}

func (e *LoadError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fixdict: %s: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("fixdict: %s: %s (%s)", e.Kind, e.Name, e.Detail)
}

func errf(kind ErrKind, name string, detailFmt string, args ...any) *LoadError {
	return &LoadError{Kind: kind, Name: name, Detail: fmt.Sprintf(detailFmt, args...)}
}
