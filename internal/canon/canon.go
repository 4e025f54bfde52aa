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

// Package canon rewrites filter documents into their canonical form.
//
// Operands of `$type` are decoded as [literal.BSONType] and re-encoded in table order;
// operands of `$options` are decoded as [literal.RegexOpts] and re-encoded in `imxs` order.
// Everything else is copied as is, preserving field order.
package canon

import (
	"bytes"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.uber.org/zap"

	"github.com/avocado-db/avocado/internal/util/lazyerrors"
	"github.com/avocado-db/avocado/literal"
)

// Result represents the canonical form of a filter document.
type Result struct {
	// Doc is the canonical document.
	Doc bson.D

	// Changed contains dot-paths of rewritten values, in document order.
	Changed []string
}

// canonicalizer holds the state of a single Document call.
type canonicalizer struct {
	l       *zap.Logger
	changed []string
}

// Document returns the canonical form of the given filter document.
//
// It fails if any `$type` or `$options` operand can't be decoded;
// the error contains the path of the operand.
func Document(raw bson.Raw, l *zap.Logger) (*Result, error) {
	c := &canonicalizer{
		l: l,
	}

	doc, err := c.document(raw, "")
	if err != nil {
		return nil, err
	}

	l.Debug("Canonicalized filter document", zap.Int("changed", len(c.changed)))

	return &Result{
		Doc:     doc,
		Changed: c.changed,
	}, nil
}

// document canonicalizes document fields.
func (c *canonicalizer) document(raw bson.Raw, path string) (bson.D, error) {
	elems, err := raw.Elements()
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	res := make(bson.D, 0, len(elems))

	for _, e := range elems {
		k := e.Key()

		v, err := c.value(k, e.Value(), join(path, k))
		if err != nil {
			return nil, err
		}

		res = append(res, bson.E{Key: k, Value: v})
	}

	return res, nil
}

// array canonicalizes array elements.
func (c *canonicalizer) array(raw bson.Raw, path string) (bson.A, error) {
	values, err := raw.Values()
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	res := make(bson.A, len(values))

	for i, v := range values {
		// array elements are never operands
		if res[i], err = c.value("", v, join(path, strconv.Itoa(i))); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// value canonicalizes the value of the field with the given key.
func (c *canonicalizer) value(key string, v bson.RawValue, path string) (any, error) {
	var m bson.ValueMarshaler

	switch key {
	case "$type":
		var t literal.BSONType
		if err := t.UnmarshalBSONValue(v.Type, v.Value); err != nil {
			return nil, lazyerrors.Errorf("%s: %w", path, err)
		}

		m = t

	case "$options":
		var o literal.RegexOpts
		if err := o.UnmarshalBSONValue(v.Type, v.Value); err != nil {
			return nil, lazyerrors.Errorf("%s: %w", path, err)
		}

		m = o

	default:
		switch v.Type {
		case bsontype.EmbeddedDocument:
			return c.document(v.Document(), path)
		case bsontype.Array:
			return c.array(v.Array(), path)
		default:
			return v, nil
		}
	}

	typ, data, err := m.MarshalBSONValue()
	if err != nil {
		return nil, lazyerrors.Errorf("%s: %w", path, err)
	}

	res := bson.RawValue{Type: typ, Value: data}

	if typ != v.Type || !bytes.Equal(data, v.Value) {
		c.l.Debug(
			"Rewritten operand",
			zap.String("path", path), zap.Stringer("old", v), zap.Stringer("new", res),
		)
		c.changed = append(c.changed, path)
	}

	return res, nil
}

// join returns a dot-path for the given key within the given path.
func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
