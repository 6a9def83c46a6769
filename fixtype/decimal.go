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

import "github.com/shopspring/decimal"

// Float is an arbitrary-precision decimal: ASCII, optional sign, optional
// single '.', leading/trailing zeros allowed and preserved on round-trip.
// Price, PriceOffset, Qty, Amt and Percentage are wire-identical aliases.
type Float struct {
	decimal.Decimal
	raw string // exact ingested text, re-emitted verbatim on encode
}

func NewFloat(d decimal.Decimal) Float { return Float{Decimal: d} }

func (v Float) EncodeFIX() []byte {
	if v.raw != "" {
		return []byte(v.raw)
	}
	return []byte(v.Decimal.String())
}

func (v *Float) DecodeFIX(raw []byte) error {
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return ErrMalformed
	}
	v.Decimal = d
	v.raw = string(raw)
	return nil
}

type (
	Price       = Float
	PriceOffset = Float
	Qty         = Float
	Amt         = Float
	Percentage  = Float
)
