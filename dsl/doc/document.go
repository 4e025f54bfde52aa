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

// Package doc provides an insertion-ordered document with unique keys.
//
// Field order is significant for document databases, so Go maps can't be used directly.
package doc

import (
	"fmt"
	"log/slog"
	"slices"
)

// Document is an ordered mapping from string keys to values of type V.
//
// Keys are unique. Setting an existing key replaces its value,
// but keeps the position of the first insertion.
//
// The zero value is an empty document ready to use.
// Read-only methods are safe to call on a nil Document.
type Document[V any] struct {
	m    map[string]V
	keys []string
}

// New creates an empty Document.
func New[V any]() *Document[V] {
	return Make[V](0)
}

// Make creates an empty Document with room for the given number of fields.
func Make[V any](capacity int) *Document[V] {
	return &Document[V]{
		m:    make(map[string]V, capacity),
		keys: make([]string, 0, capacity),
	}
}

// Len returns the number of fields.
func (d *Document[V]) Len() int {
	if d == nil {
		return 0
	}

	return len(d.keys)
}

// Keys returns a copy of document's keys in order.
func (d *Document[V]) Keys() []string {
	if d == nil {
		return nil
	}

	return slices.Clone(d.keys)
}

// Values returns document's values in key order.
func (d *Document[V]) Values() []V {
	if d == nil {
		return nil
	}

	res := make([]V, len(d.keys))
	for i, k := range d.keys {
		res[i] = d.m[k]
	}

	return res
}

// Get returns the value at the given key.
func (d *Document[V]) Get(key string) (V, bool) {
	if d == nil {
		var zero V
		return zero, false
	}

	v, ok := d.m[key]

	return v, ok
}

// Has returns true if the given key is present.
func (d *Document[V]) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Set sets the value of the given key.
//
// A new key is appended at the end. An existing key keeps its position.
func (d *Document[V]) Set(key string, value V) {
	if d.m == nil {
		d.m = make(map[string]V, 1)
	}

	if _, ok := d.m[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.m[key] = value
}

// Remove removes the given key, doing nothing if the key does not exist.
func (d *Document[V]) Remove(key string) {
	if d == nil {
		return
	}

	if _, ok := d.m[key]; !ok {
		return
	}

	delete(d.m, key)

	i := slices.Index(d.keys, key)
	if i < 0 {
		panic(fmt.Sprintf("doc.Document.Remove: key not found: %q", key))
	}

	d.keys = slices.Delete(d.keys, i, i+1)
}

// Range calls f for each field in order until f returns false.
func (d *Document[V]) Range(f func(key string, value V) bool) {
	if d == nil {
		return
	}

	for _, k := range d.keys {
		if !f(k, d.m[k]) {
			return
		}
	}
}

// Clone returns a shallow copy of the document.
func (d *Document[V]) Clone() *Document[V] {
	res := Make[V](d.Len())

	d.Range(func(k string, v V) bool {
		res.Set(k, v)
		return true
	})

	return res
}

// LogValue implements [slog.LogValuer] interface.
func (d *Document[V]) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, d.Len())

	d.Range(func(k string, v V) bool {
		attrs = append(attrs, slog.Any(k, v))
		return true
	})

	return slog.GroupValue(attrs...)
}

// check interfaces
var (
	_ slog.LogValuer = (*Document[any])(nil)
)
