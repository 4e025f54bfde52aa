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

package filter

import (
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/avocado-db/avocado/internal/util/lazyerrors"
	"github.com/avocado-db/avocado/literal"
)

// ErrSizeOverflow is returned when a [Size] value can't be represented as a 64-bit signed integer.
var ErrSizeOverflow = errors.New("$size overflows int64")

// Encode returns the BSON representation of the filter:
// bson.D for documents, bson.A for arrays, and the value itself for [Value].
//
// Operator filters are encoded as single-field documents such as {"$ne": 5};
// [Regex] with options is the only one with two fields.
func Encode(f Filter) (any, error) {
	switch f := f.(type) {
	case Value:
		return f.Value, nil

	case Doc:
		return EncodeDocument(f.Fields)

	case Array:
		res := make(bson.A, len(f))

		for i, e := range f {
			v, err := Encode(e)
			if err != nil {
				return nil, lazyerrors.Errorf("%d: %w", i, err)
			}

			res[i] = v
		}

		return res, nil

	case Eq:
		return operator("$eq", f.Value), nil
	case Ne:
		return operator("$ne", f.Value), nil
	case Gt:
		return operator("$gt", f.Value), nil
	case Lt:
		return operator("$lt", f.Value), nil
	case Gte:
		return operator("$gte", f.Value), nil
	case Lte:
		return operator("$lte", f.Value), nil
	case In:
		return operator("$in", array(f)), nil
	case Nin:
		return operator("$nin", array(f)), nil

	case Not:
		v, err := Encode(f.Filter)
		if err != nil {
			return nil, lazyerrors.Errorf("$not: %w", err)
		}

		return operator("$not", v), nil

	case Exists:
		var v int32
		if f {
			v = 1
		}

		return operator("$exists", v), nil

	case Type:
		v, err := literal.BSONType(f).Encode()
		if err != nil {
			return nil, lazyerrors.Errorf("$type: %w", err)
		}

		return operator("$type", v), nil

	case JSONSchema:
		return operator("$jsonSchema", append(bson.D{}, f...)), nil

	case Regex:
		if f.Options.IsEmpty() {
			return operator("$regex", f.Pattern), nil
		}

		return bson.D{
			{Key: "$regex", Value: f.Pattern},
			{Key: "$options", Value: f.Options.String()},
		}, nil

	case All:
		return operator("$all", array(f)), nil

	case ElemMatch:
		v, err := EncodeDocument(f.Query)
		if err != nil {
			return nil, lazyerrors.Errorf("$elemMatch: %w", err)
		}

		return operator("$elemMatch", v), nil

	case Size:
		if f > math.MaxInt64 {
			return nil, fmt.Errorf("%w: {$size: %d}", ErrSizeOverflow, uint64(f))
		}

		return operator("$size", int64(f)), nil

	default:
		panic(fmt.Sprintf("filter.Encode: unexpected filter type %T", f))
	}
}

// operator returns a single-field document {op: v}.
func operator(op string, v any) bson.D {
	return bson.D{{Key: op, Value: v}}
}

// array returns a non-nil copy of values, so that an empty operand is encoded as [] and not as null.
func array(values []any) bson.A {
	return append(bson.A{}, values...)
}

// EncodeDocument returns the BSON representation of the document, preserving field order.
func EncodeDocument(d *Document) (bson.D, error) {
	res := make(bson.D, 0, d.Len())

	var err error

	d.Range(func(k string, f Filter) bool {
		var v any
		if v, err = Encode(f); err != nil {
			err = lazyerrors.Errorf("%q: %w", k, err)
			return false
		}

		res = append(res, bson.E{Key: k, Value: v})

		return true
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}

// Marshal returns the BSON document bytes of the filter document.
func Marshal(d *Document) (bson.Raw, error) {
	v, err := EncodeDocument(d)
	if err != nil {
		return nil, err
	}

	b, err := bson.Marshal(v)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	return b, nil
}

// MarshalExtJSON returns the Extended JSON representation of the filter document.
func MarshalExtJSON(d *Document, canonical bool) ([]byte, error) {
	v, err := EncodeDocument(d)
	if err != nil {
		return nil, err
	}

	b, err := bson.MarshalExtJSON(v, canonical, false)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	return b, nil
}
