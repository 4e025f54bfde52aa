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

// Package filter provides query filters (the filtering sub-operators of find, update, delete, etc.).
//
// A [Filter] is an immutable in-memory value that represents a single predicate.
// Filters are combined into a [Document] that maps field paths to filters,
// and encoded into the shape the database expects with [EncodeDocument].
//
// Encoding is one-way: different filters may produce the same BSON.
package filter

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/avocado-db/avocado/dsl/doc"
	"github.com/avocado-db/avocado/literal"
)

// Filter represents a query condition.
//
// All implementations are listed below; they are encoded by [Encode].
// All of them implement [bson.ValueMarshaler], so they could be used directly in driver documents.
//
//go-sumtype:decl Filter
type Filter interface {
	bson.ValueMarshaler
	filter() // seal for sumtype
}

// Document is a map from field paths to filters.
type Document = doc.Document[Filter]

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return doc.New[Filter]()
}

// Value matches if the field has the given value.
// It is encoded as the value itself.
type Value struct {
	Value any
}

// Doc is a sub-query of multiple field path => filter pairs.
type Doc struct {
	Fields *Document
}

// Array is a sub-query of multiple filters, such as an operand of `$and`.
type Array []Filter

// Eq matches if the field is equal to the given value.
type Eq struct {
	Value any
}

// Ne matches if the field is not equal to the given value.
type Ne struct {
	Value any
}

// Gt matches if the field is greater than the given value.
type Gt struct {
	Value any
}

// Lt matches if the field is less than the given value.
type Lt struct {
	Value any
}

// Gte matches if the field is greater than or equal to the given value.
type Gte struct {
	Value any
}

// Lte matches if the field is less than or equal to the given value.
type Lte struct {
	Value any
}

// In matches if the value of the field is any of the given values.
type In []any

// Nin matches if the value of the field is none of the given values.
type Nin []any

// Not matches if the field does not satisfy the given filter.
type Not struct {
	Filter Filter
}

// Exists matches if the field exists in the enclosing document (true)
// or does not exist (false).
type Exists bool

// Type matches if the type of the field is any of the given types.
type Type literal.BSONType

// JSONSchema matches if the value satisfies the given JSON schema.
type JSONSchema bson.D

// Regex matches if the field is a string matching the regular expression.
type Regex struct {
	Pattern string
	Options literal.RegexOpts
}

// All matches if the field is an array containing all given values.
type All []any

// ElemMatch matches if the field is an array containing at least one element
// that matches all given sub-queries.
type ElemMatch struct {
	Query *Document
}

// Size matches if the field is an array with the given number of elements.
type Size uint64

// From returns a Filter for the given value.
//
// Filters are returned as is, *Document becomes [Doc], anything else becomes [Value].
func From(v any) Filter {
	switch v := v.(type) {
	case Filter:
		return v
	case *Document:
		return Doc{Fields: v}
	default:
		return Value{Value: v}
	}
}

// marshalValue implements [bson.ValueMarshaler] for all filters.
func marshalValue(f Filter) (bsontype.Type, []byte, error) {
	v, err := Encode(f)
	if err != nil {
		return 0, nil, err
	}

	if v == nil {
		return bsontype.Null, nil, nil
	}

	return bson.MarshalValue(v)
}

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Value) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Doc) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Array) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Eq) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Ne) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Gt) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Lt) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Gte) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Lte) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f In) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Nin) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Not) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Exists) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Type) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f JSONSchema) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Regex) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f All) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f ElemMatch) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (f Size) MarshalBSONValue() (bsontype.Type, []byte, error) { return marshalValue(f) }

func (Value) filter()      {}
func (Doc) filter()        {}
func (Array) filter()      {}
func (Eq) filter()         {}
func (Ne) filter()         {}
func (Gt) filter()         {}
func (Lt) filter()         {}
func (Gte) filter()        {}
func (Lte) filter()        {}
func (In) filter()         {}
func (Nin) filter()        {}
func (Not) filter()        {}
func (Exists) filter()     {}
func (Type) filter()       {}
func (JSONSchema) filter() {}
func (Regex) filter()      {}
func (All) filter()        {}
func (ElemMatch) filter()  {}
func (Size) filter()       {}

// check interfaces
var (
	_ Filter = Value{}
	_ Filter = Doc{}
	_ Filter = Array(nil)
	_ Filter = Eq{}
	_ Filter = Ne{}
	_ Filter = Gt{}
	_ Filter = Lt{}
	_ Filter = Gte{}
	_ Filter = Lte{}
	_ Filter = In(nil)
	_ Filter = Nin(nil)
	_ Filter = Not{}
	_ Filter = Exists(false)
	_ Filter = Type(0)
	_ Filter = JSONSchema(nil)
	_ Filter = Regex{}
	_ Filter = All(nil)
	_ Filter = ElemMatch{}
	_ Filter = Size(0)
)
