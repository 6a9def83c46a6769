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

package fixtype

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UtcTimestamp is "YYYYMMDD-HH:MM:SS" with an optional fractional part of
// 3, 6 or 9 digits. Picoseconds (12 digits) are truncated to nanoseconds on
// ingest; whatever precision was ingested (including none) is preserved
// verbatim on re-encode, per the design note on sub-second round-tripping.
type UtcTimestamp struct {
	Time   time.Time
	Digits int // 0, 3, 6, or 9 fractional digits as ingested
}

const utcTimestampLayout = "20060102-15:04:05"

func NewUtcTimestamp(t time.Time, digits int) UtcTimestamp {
	return UtcTimestamp{Time: t.UTC(), Digits: digits}
}

func (v UtcTimestamp) EncodeFIX() []byte {
	s := v.Time.UTC().Format(utcTimestampLayout)
	if v.Digits > 0 {
		frac := v.Time.UTC().Format(".000000000")[:v.Digits+1]
		s += frac
	}
	return []byte(s)
}

func (v *UtcTimestamp) DecodeFIX(raw []byte) error {
	s := string(raw)
	dash := strings.IndexByte(s, '-')
	if dash != 8 {
		return ErrMalformed
	}
	datePart, timePart := s[:8], s[9:]
	dot := strings.IndexByte(timePart, '.')
	base := timePart
	var digits int
	var fracDigits string
	if dot != -1 {
		base = timePart[:dot]
		fracDigits = timePart[dot+1:]
		switch len(fracDigits) {
		case 3, 6, 9:
			digits = len(fracDigits)
		case 12:
			fracDigits = fracDigits[:9]
			digits = 9
		default:
			return ErrMalformed
		}
	}
	t, err := time.ParseInLocation(utcTimestampLayout, datePart+"-"+base, time.UTC)
	if err != nil {
		return ErrMalformed
	}
	if digits > 0 {
		nanos, err := strconv.Atoi(fracDigits)
		if err != nil {
			return ErrMalformed
		}
		for i := len(fracDigits); i < 9; i++ {
			nanos *= 10
		}
		t = t.Add(time.Duration(nanos) * time.Nanosecond)
	}
	v.Time = t
	v.Digits = digits
	return nil
}

// UtcDateOnly is "YYYYMMDD".
type UtcDateOnly struct{ Time time.Time }

func (v UtcDateOnly) EncodeFIX() []byte { return []byte(v.Time.UTC().Format("20060102")) }

func (v *UtcDateOnly) DecodeFIX(raw []byte) error {
	t, err := time.ParseInLocation("20060102", string(raw), time.UTC)
	if err != nil {
		return ErrMalformed
	}
	v.Time = t
	return nil
}

// LocalMktDate is "YYYYMMDD", interpreted in a market's local calendar
// rather than UTC; represented the same way as UtcDateOnly on the wire.
type LocalMktDate struct{ Time time.Time }

func (v LocalMktDate) EncodeFIX() []byte { return []byte(v.Time.Format("20060102")) }

func (v *LocalMktDate) DecodeFIX(raw []byte) error {
	t, err := time.Parse("20060102", string(raw))
	if err != nil {
		return ErrMalformed
	}
	v.Time = t
	return nil
}

// UtcTimeOnly is "HH:MM:SS[.fraction]" with the same precision-preservation
// rule as UtcTimestamp.
type UtcTimeOnly struct {
	Time   time.Time
	Digits int
}

func (v UtcTimeOnly) EncodeFIX() []byte {
	s := v.Time.UTC().Format("15:04:05")
	if v.Digits > 0 {
		s += v.Time.UTC().Format(".000000000")[:v.Digits+1]
	}
	return []byte(s)
}

func (v *UtcTimeOnly) DecodeFIX(raw []byte) error {
	s := string(raw)
	dot := strings.IndexByte(s, '.')
	base := s
	digits := 0
	if dot != -1 {
		base = s[:dot]
		digits = len(s) - dot - 1
		if digits == 12 {
			digits = 9
		}
	}
	t, err := time.ParseInLocation("15:04:05", base, time.UTC)
	if err != nil {
		return ErrMalformed
	}
	if dot != -1 {
		fracDigits := s[dot+1:]
		if len(fracDigits) == 12 {
			fracDigits = fracDigits[:9]
		}
		nanos, err := strconv.Atoi(fracDigits)
		if err != nil {
			return ErrMalformed
		}
		for i := len(fracDigits); i < 9; i++ {
			nanos *= 10
		}
		t = t.Add(time.Duration(nanos) * time.Nanosecond)
	}
	v.Time = t
	v.Digits = digits
	return nil
}

// TzTimeOnly is "HH:MM:SS[.fraction][Z|+HH[:MM]|-HH[:MM]]".
type TzTimeOnly struct {
	UtcTimeOnly
	Offset time.Duration // zero for 'Z'
	HasTz  bool
}

func (v TzTimeOnly) EncodeFIX() []byte {
	s := string(v.UtcTimeOnly.EncodeFIX())
	if !v.HasTz {
		return []byte(s)
	}
	if v.Offset == 0 {
		return []byte(s + "Z")
	}
	sign := "+"
	off := v.Offset
	if off < 0 {
		sign = "-"
		off = -off
	}
	h := int(off / time.Hour)
	m := int((off % time.Hour) / time.Minute)
	return []byte(fmt.Sprintf("%s%s%02d:%02d", s, sign, h, m))
}

func (v *TzTimeOnly) DecodeFIX(raw []byte) error {
	s := string(raw)
	tz, off, has, rest := splitTz(s)
	if err := v.UtcTimeOnly.DecodeFIX([]byte(rest)); err != nil {
		return err
	}
	v.HasTz = has
	v.Offset = off
	_ = tz
	return nil
}

// TzTimestamp combines date, time-of-day and an optional timezone suffix.
type TzTimestamp struct {
	UtcTimestamp
	Offset time.Duration
	HasTz  bool
}

func (v TzTimestamp) EncodeFIX() []byte {
	s := string(v.UtcTimestamp.EncodeFIX())
	if !v.HasTz {
		return []byte(s)
	}
	if v.Offset == 0 {
		return []byte(s + "Z")
	}
	sign := "+"
	off := v.Offset
	if off < 0 {
		sign = "-"
		off = -off
	}
	h := int(off / time.Hour)
	m := int((off % time.Hour) / time.Minute)
	return []byte(fmt.Sprintf("%s%s%02d:%02d", s, sign, h, m))
}

func (v *TzTimestamp) DecodeFIX(raw []byte) error {
	s := string(raw)
	_, off, has, rest := splitTz(s)
	if err := v.UtcTimestamp.DecodeFIX([]byte(rest)); err != nil {
		return err
	}
	v.HasTz = has
	v.Offset = off
	return nil
}

// splitTz splits a trailing 'Z' or '+HH[:MM]'/'-HH[:MM]' timezone suffix
// off the end of s, returning the suffix text, its offset, whether one was
// present, and the remaining (non-timezone) prefix.
func splitTz(s string) (suffix string, off time.Duration, has bool, rest string) {
	if strings.HasSuffix(s, "Z") {
		return "Z", 0, true, s[:len(s)-1]
	}
	for i := len(s) - 1; i >= 0 && i > len(s)-7; i-- {
		if s[i] == '+' || s[i] == '-' {
			tzPart := s[i:]
			sign := time.Duration(1)
			if tzPart[0] == '-' {
				sign = -1
			}
			digits := strings.ReplaceAll(tzPart[1:], ":", "")
			if len(digits) != 2 && len(digits) != 4 {
				continue
			}
			h, err := strconv.Atoi(digits[:2])
			if err != nil {
				continue
			}
			m := 0
			if len(digits) == 4 {
				m, err = strconv.Atoi(digits[2:])
				if err != nil {
					continue
				}
			}
			return tzPart, sign * (time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true, s[:i]
		}
	}
	return "", 0, false, s
}

// MonthYear is "YYYYMM", optionally followed by "DD" (a day) or "Wn"/"Wn1,n2"
// (a week designator). Only the common YYYYMM[DD] form is modeled; the week
// designator is retained verbatim when present since it has no calendar
// meaning to parse.
type MonthYear struct {
	Year, Month int
	Day         int    // 0 if absent
	Week        string // raw "Wnn" suffix if present, else ""
}

func (v MonthYear) EncodeFIX() []byte {
	s := fmt.Sprintf("%04d%02d", v.Year, v.Month)
	if v.Day > 0 {
		s += fmt.Sprintf("%02d", v.Day)
	} else if v.Week != "" {
		s += v.Week
	}
	return []byte(s)
}

func (v *MonthYear) DecodeFIX(raw []byte) error {
	s := string(raw)
	if len(s) < 6 {
		return ErrMalformed
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return ErrMalformed
	}
	month, err := strconv.Atoi(s[4:6])
	if err != nil {
		return ErrMalformed
	}
	v.Year, v.Month = year, month
	v.Day, v.Week = 0, ""
	rest := s[6:]
	switch {
	case rest == "":
	case len(rest) == 2 && rest[0] != 'W':
		day, err := strconv.Atoi(rest)
		if err != nil {
			return ErrMalformed
		}
		v.Day = day
	case strings.HasPrefix(rest, "W"):
		v.Week = rest
	default:
		return ErrMalformed
	}
	return nil
}
