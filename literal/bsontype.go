// Copyright 2021 FerretDB Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package literal

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// BSONType is a set of non-deprecated BSON types.
type BSONType uint16

const (
	// Null is the `null` value.
	Null = BSONType(1 << iota)
	// Bool is `true` or `false`.
	Bool
	// Double is a double-precision floating-point number.
	Double
	// Int is a 32-bit signed integer.
	Int
	// Long is a 64-bit signed integer.
	Long
	// Decimal is a 128-bit decimal number.
	Decimal
	// ObjectID is an ObjectId.
	ObjectID
	// Timestamp is an internal MongoDB timestamp.
	Timestamp
	// Date is a date and time.
	Date
	// String is an UTF-8 string.
	String
	// Regex is a regular expression with its matching options.
	Regex
	// Binary is binary data.
	Binary
	// Array is an array.
	Array
	// Document is an embedded document (object).
	Document
	// JavaScript is JavaScript code.
	JavaScript
	// JavaScriptWithScope is JavaScript code with scope.
	JavaScriptWithScope
)

// Number is any of the 4 numeric types.
const Number = Double | Int | Long | Decimal

// typeAliases contains all distinct BSON type flags with their `$type` aliases, in encoding order.
//
// Int and Long share the same alias; decoding "int" yields Int.
var typeAliases = []struct {
	t     BSONType
	alias string
}{
	{Null, "null"},
	{Bool, "bool"},
	{Double, "double"},
	{Int, "int"},
	{Long, "int"},
	{Decimal, "decimal"},
	{ObjectID, "objectId"},
	{Timestamp, "timestamp"},
	{Date, "date"},
	{String, "string"},
	{Regex, "regex"},
	{Binary, "binData"},
	{Array, "array"},
	{Document, "object"},
	{JavaScript, "javascript"},
	{JavaScriptWithScope, "javascriptWithScope"},
}

// ParseBSONType returns a union of types with the given aliases.
func ParseBSONType(aliases ...string) (BSONType, error) {
	var res BSONType

	for _, a := range aliases {
		t, err := typeForAlias(a)
		if err != nil {
			return 0, err
		}

		res |= t
	}

	return res, nil
}

// typeForAlias returns the first type in the table with the given alias.
func typeForAlias(alias string) (BSONType, error) {
	for _, ta := range typeAliases {
		if ta.alias == alias {
			return ta.t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownTypeAlias, alias)
}

// Contains returns true if all types of other are present in t.
func (t BSONType) Contains(other BSONType) bool {
	return t&other == other
}

// Count returns the number of types in the set.
func (t BSONType) Count() int {
	return bits.OnesCount16(uint16(t))
}

// aliases returns aliases of all types in the set, in table order.
func (t BSONType) aliases() []string {
	res := make([]string, 0, t.Count())

	for _, ta := range typeAliases {
		if t.Contains(ta.t) {
			res = append(res, ta.alias)
		}
	}

	return res
}

// Encode returns the `$type` operand: a single alias string for a single type,
// or an array of aliases in table order for multiple types.
//
// Int and Long are both encoded as "int", so [Number] is encoded as
// ["double", "int", "int", "decimal"].
func (t BSONType) Encode() (any, error) {
	switch t.Count() {
	case 0:
		return nil, ErrNoTypes
	case 1:
		return t.aliases()[0], nil
	default:
		aliases := t.aliases()

		res := make(bson.A, len(aliases))
		for i, a := range aliases {
			res[i] = a
		}

		return res, nil
	}
}

// String implements [fmt.Stringer] interface.
func (t BSONType) String() string {
	if t == 0 {
		return "BSONType(0)"
	}

	return strings.Join(t.aliases(), "|")
}

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (t BSONType) MarshalBSONValue() (bsontype.Type, []byte, error) {
	v, err := t.Encode()
	if err != nil {
		return 0, nil, err
	}

	return bson.MarshalValue(v)
}

// UnmarshalBSONValue implements [bson.ValueUnmarshaler] interface.
//
// It accepts a single alias string or an array of alias strings.
func (t *BSONType) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: typ, Value: data}

	switch typ {
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("%w: malformed string", ErrInvalidTypeValue)
		}

		res, err := ParseBSONType(s)
		if err != nil {
			return err
		}

		*t = res

		return nil

	case bsontype.Array:
		arr, ok := rv.ArrayOK()
		if !ok {
			return fmt.Errorf("%w: malformed array", ErrInvalidTypeValue)
		}

		values, err := arr.Values()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTypeValue, err)
		}

		aliases := make([]string, len(values))

		for i, v := range values {
			s, ok := v.StringValueOK()
			if !ok {
				return fmt.Errorf("%w: element %d is %s", ErrInvalidTypeValue, i, v.Type)
			}

			aliases[i] = s
		}

		res, err := ParseBSONType(aliases...)
		if err != nil {
			return err
		}

		*t = res

		return nil

	default:
		return fmt.Errorf("%w: got %s", ErrInvalidTypeValue, typ)
	}
}

// MarshalJSON implements [json.Marshaler] interface.
func (t BSONType) MarshalJSON() ([]byte, error) {
	v, err := t.Encode()
	if err != nil {
		return nil, err
	}

	return json.Marshal(v)
}

// UnmarshalJSON implements [json.Unmarshaler] interface.
func (t *BSONType) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var aliases []string

	switch raw := raw.(type) {
	case string:
		aliases = []string{raw}

	case []any:
		aliases = make([]string, len(raw))

		for i, v := range raw {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: element %d is %T", ErrInvalidTypeValue, i, v)
			}

			aliases[i] = s
		}

	default:
		return fmt.Errorf("%w: got %T", ErrInvalidTypeValue, raw)
	}

	res, err := ParseBSONType(aliases...)
	if err != nil {
		return err
	}

	*t = res

	return nil
}

// check interfaces
var (
	_ fmt.Stringer          = BSONType(0)
	_ bson.ValueMarshaler   = BSONType(0)
	_ bson.ValueUnmarshaler = (*BSONType)(nil)
	_ json.Marshaler        = BSONType(0)
	_ json.Unmarshaler      = (*BSONType)(nil)
)
