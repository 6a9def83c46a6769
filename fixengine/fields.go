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
	"time"

	"github.com/primefix/fixengine/fixschema"
	"github.com/primefix/fixengine/fixtype"
)

// The handful of header/body tags the engine itself inspects directly,
// independent of any particular dictionary's field table.
const (
	tagMsgSeqNum        int32 = 34
	tagSenderCompID     int32 = 49
	tagTargetCompID     int32 = 56
	tagSendingTime      int32 = 52
	tagPossDupFlag      int32 = 43
	tagOrigSendingTime  int32 = 122
	tagHeartBtInt       int32 = 108
	tagTestReqID        int32 = 112
	tagEncryptMethod    int32 = 98
	tagResetSeqNumFlag  int32 = 141
	tagNextExpectedSeq  int32 = 789
	tagBeginSeqNo       int32 = 7
	tagEndSeqNo         int32 = 16
	tagNewSeqNo         int32 = 36
	tagGapFillFlag      int32 = 123
	tagRefSeqNum        int32 = 45
	tagRefTagID         int32 = 371
	tagRefMsgType       int32 = 372
	tagSessionRejReason int32 = 373
	tagText             int32 = 58
	tagSessionStatus    int32 = 1409
)

func getString(f *fixschema.Fields, tag int32) (string, bool) {
	v, ok := f.Field(tag)
	if !ok {
		return "", false
	}
	return string(v.EncodeFIX()), true
}

func getSeqNum(f *fixschema.Fields, tag int32) (int32, bool) {
	v, ok := f.Field(tag)
	if !ok {
		return 0, false
	}
	var n fixtype.SeqNum
	if err := n.DecodeFIX(v.EncodeFIX()); err != nil {
		return 0, false
	}
	return int32(n), true
}

func getInt(f *fixschema.Fields, tag int32) (int32, bool) {
	v, ok := f.Field(tag)
	if !ok {
		return 0, false
	}
	var n fixtype.Int
	if err := n.DecodeFIX(v.EncodeFIX()); err != nil {
		return 0, false
	}
	return int32(n), true
}

func getBool(f *fixschema.Fields, tag int32) (bool, bool) {
	v, ok := f.Field(tag)
	if !ok {
		return false, false
	}
	var b fixtype.Boolean
	if err := b.DecodeFIX(v.EncodeFIX()); err != nil {
		return false, false
	}
	return bool(b), true
}

func getTimestamp(f *fixschema.Fields, tag int32) (time.Time, bool) {
	v, ok := f.Field(tag)
	if !ok {
		return time.Time{}, false
	}
	var ts fixtype.UtcTimestamp
	if err := ts.DecodeFIX(v.EncodeFIX()); err != nil {
		return time.Time{}, false
	}
	return ts.Time, true
}

func setString(f *fixschema.Fields, tag int32, s string) {
	v := fixtype.String(s)
	f.SetField(tag, &v)
}

func setSeqNum(f *fixschema.Fields, tag int32, n int32) {
	v := fixtype.SeqNum(n)
	f.SetField(tag, &v)
}

func setInt(f *fixschema.Fields, tag int32, n int32) {
	v := fixtype.Int(n)
	f.SetField(tag, &v)
}

func setBool(f *fixschema.Fields, tag int32, b bool) {
	v := fixtype.Boolean(b)
	f.SetField(tag, &v)
}

func setTimestamp(f *fixschema.Fields, tag int32, t time.Time) {
	v := fixtype.NewUtcTimestamp(t, 3)
	f.SetField(tag, &v)
}

func setChar(f *fixschema.Fields, tag int32, c byte) {
	v := fixtype.Char(c)
	f.SetField(tag, &v)
}
