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

// Package flt provides shorthand constructors for filters and filter documents.
//
//	q := flt.Must(
//		"name", flt.Regex("^Avocado.*$"),
//		"author.username", "H2CO3",
//		"stargazers", filter.Type(literal.Array),
//		"downloads", flt.Ne(1337),
//	)
package flt

import (
	"fmt"

	"github.com/avocado-db/avocado/dsl/filter"
	"github.com/avocado-db/avocado/internal/util/must"
	"github.com/avocado-db/avocado/literal"
)

// New creates a filter document with the given field paths and values.
//
// Values are converted with [filter.From], so plain values, filters, and nested documents can be mixed.
// A repeated field path replaces the previous value, keeping its position.
func New(pairs ...any) (*filter.Document, error) {
	l := len(pairs)
	if l%2 != 0 {
		return nil, fmt.Errorf("flt.New: invalid number of arguments: %d", l)
	}

	res := filter.NewDocument()

	for i := 0; i < l; i += 2 {
		path, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("flt.New: invalid field path type: %T", pairs[i])
		}

		res.Set(path, filter.From(pairs[i+1]))
	}

	return res, nil
}

// Must is a [New] that panics in case of error.
func Must(pairs ...any) *filter.Document {
	return must.NotFail(New(pairs...))
}

// Eq returns [filter.Eq] for the given value.
func Eq(v any) filter.Filter { return filter.Eq{Value: v} }

// Ne returns [filter.Ne] for the given value.
func Ne(v any) filter.Filter { return filter.Ne{Value: v} }

// Gt returns [filter.Gt] for the given value.
func Gt(v any) filter.Filter { return filter.Gt{Value: v} }

// Lt returns [filter.Lt] for the given value.
func Lt(v any) filter.Filter { return filter.Lt{Value: v} }

// Gte returns [filter.Gte] for the given value.
func Gte(v any) filter.Filter { return filter.Gte{Value: v} }

// Lte returns [filter.Lte] for the given value.
func Lte(v any) filter.Filter { return filter.Lte{Value: v} }

// Regex returns [filter.Regex] for the given pattern without options.
func Regex(pattern string) filter.Filter {
	return RegexOpts(pattern, 0)
}

// RegexOpts returns [filter.Regex] for the given pattern and options.
func RegexOpts(pattern string, opts literal.RegexOpts) filter.Filter {
	return filter.Regex{Pattern: pattern, Options: opts}
}

// Not returns the negation of the given filter or value.
func Not(v any) filter.Filter {
	return filter.Not{Filter: filter.From(v)}
}

// And returns a document {"$and": [...]} for the given filters or documents.
//
// Logical operators are only valid at the top level of the query, not as field filters.
func And(filters ...any) *filter.Document {
	return logical("$and", filters)
}

// Or returns a document {"$or": [...]}; see [And].
func Or(filters ...any) *filter.Document {
	return logical("$or", filters)
}

// Nor returns a document {"$nor": [...]}; see [And].
func Nor(filters ...any) *filter.Document {
	return logical("$nor", filters)
}

func logical(op string, filters []any) *filter.Document {
	arr := make(filter.Array, len(filters))
	for i, f := range filters {
		arr[i] = filter.From(f)
	}

	res := filter.NewDocument()
	res.Set(op, arr)

	return res
}
