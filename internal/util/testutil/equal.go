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

// Package testutil provides testing helpers.
package testutil

import (
	"fmt"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// AssertEqualBSON asserts that two values are encoded to the same BSON.
//
// Values are compared by their canonical Extended JSON representation,
// so field order and numeric types matter.
func AssertEqualBSON(tb testing.TB, expected, actual any) bool {
	tb.Helper()

	expectedS, actualS := extJSON(tb, expected), extJSON(tb, actual)
	if expectedS == actualS {
		return true
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expectedS),
		FromFile: "expected",
		B:        difflib.SplitLines(actualS),
		ToFile:   "actual",
		Context:  1,
	})
	require.NoError(tb, err)

	msg := fmt.Sprintf("Not equal: \nexpected: %s\nactual  : %s\n%s", expectedS, actualS, diff)

	return assert.Fail(tb, msg)
}

// extJSON returns an indented canonical Extended JSON representation of v.
//
// v is wrapped into a document, as top-level scalars and arrays can't be represented.
func extJSON(tb testing.TB, v any) string {
	tb.Helper()

	b, err := bson.MarshalExtJSONIndent(bson.D{{Key: "v", Value: v}}, true, false, "", "  ")
	require.NoError(tb, err)

	return string(b)
}
