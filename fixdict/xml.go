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

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/primefix/fixengine/fixtype"
)

// rawMember captures a single <field>/<component>/<group> element. Using a
// single ",any" slice (rather than separate typed slices) is what lets
// encoding/xml preserve declaration order across the three element kinds,
// the same trick the fixdecoder example uses for the flatter <field> case.
type rawMember struct {
	XMLName  xml.Name
	Name     string      `xml:"name,attr"`
	Required string      `xml:"required,attr"`
	Children []rawMember `xml:",any"`
}

type rawContainer struct {
	Members []rawMember `xml:",any"`
}

type rawMessage struct {
	Name    string      `xml:"name,attr"`
	MsgType string      `xml:"msgtype,attr"`
	MsgCat  string      `xml:"msgcat,attr"`
	Members []rawMember `xml:",any"`
}

type rawComponent struct {
	Name    string      `xml:"name,attr"`
	Members []rawMember `xml:",any"`
}

type rawValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type rawField struct {
	Number int        `xml:"number,attr"`
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Values []rawValue `xml:"value"`
}

type rawDoc struct {
	XMLName     xml.Name       `xml:"fix"`
	Type        string         `xml:"type,attr"`
	Major       string         `xml:"major,attr"`
	Minor       string         `xml:"minor,attr"`
	ServicePack string         `xml:"servicepack,attr"`
	Header      *rawContainer  `xml:"header"`
	Trailer     *rawContainer  `xml:"trailer"`
	Messages    []rawMessage   `xml:"messages>message"`
	Components  []rawComponent `xml:"components>component"`
	Fields      []rawField     `xml:"fields>field"`
}

func parseXML(r io.Reader) (*rawDoc, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc rawDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *rawDoc) version() (Version, error) {
	if d.Type != "FIX" && d.Type != "FIXT" {
		return Version{}, &LoadError{Kind: ErrUnknownVersion, Name: d.Type}
	}
	major, err1 := strconv.Atoi(d.Major)
	minor, err2 := strconv.Atoi(d.Minor)
	if err1 != nil || err2 != nil {
		return Version{}, &LoadError{Kind: ErrUnknownVersion, Name: d.Type + "." + d.Major + "." + d.Minor}
	}
	sp := 0
	if d.ServicePack != "" {
		sp, _ = strconv.Atoi(d.ServicePack)
	}
	return Version{Type: d.Type, Major: major, Minor: minor, ServicePack: sp}, nil
}

// basicTypeKind maps a dictionary XML type name to its fixtype.Kind. The
// name set follows the QuickFIX XML dialect used across the FIX dictionary
// ecosystem (also seen driving the fixdecoder example's own field table).
func basicTypeKind(xmlType string) (fixtype.Kind, bool) {
	switch strings.ToUpper(xmlType) {
	case "AMT":
		return fixtype.KindAmt, true
	case "BOOLEAN":
		return fixtype.KindBoolean, true
	case "CHAR":
		return fixtype.KindChar, true
	case "COUNTRY":
		return fixtype.KindCountry, true
	case "CURRENCY":
		return fixtype.KindCurrency, true
	case "DATA":
		return fixtype.KindData, true
	case "EXCHANGE":
		return fixtype.KindExchange, true
	case "FLOAT":
		return fixtype.KindFloat, true
	case "INT":
		return fixtype.KindInt, true
	case "LANGUAGE":
		return fixtype.KindLanguage, true
	case "LENGTH":
		return fixtype.KindLength, true
	case "LOCALMKTDATE":
		return fixtype.KindLocalMktDate, true
	case "MONTHYEAR":
		return fixtype.KindMonthYear, true
	case "MULTIPLECHARVALUE":
		return fixtype.KindMultipleCharValue, true
	case "MULTIPLESTRINGVALUE", "MULTIPLEVALUESTRING":
		return fixtype.KindMultipleStringValue, true
	case "NUMINGROUP":
		return fixtype.KindNumInGroup, true
	case "PERCENTAGE":
		return fixtype.KindPercentage, true
	case "PRICE":
		return fixtype.KindPrice, true
	case "PRICEOFFSET":
		return fixtype.KindPriceOffset, true
	case "QTY":
		return fixtype.KindQty, true
	case "SEQNUM":
		return fixtype.KindSeqNum, true
	case "STRING":
		return fixtype.KindString, true
	case "TZTIMEONLY":
		return fixtype.KindTzTimeOnly, true
	case "TZTIMESTAMP":
		return fixtype.KindTzTimestamp, true
	case "UTCDATEONLY", "UTCDATE":
		return fixtype.KindUtcDateOnly, true
	case "UTCTIMEONLY":
		return fixtype.KindUtcTimeOnly, true
	case "UTCTIMESTAMP":
		return fixtype.KindUtcTimestamp, true
	case "XMLDATA":
		return fixtype.KindXmlData, true
	default:
		return "", false
	}
}
