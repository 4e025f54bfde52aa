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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestBSONTypeEncode(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		t        BSONType
		expected any
	}{
		"Null":   {t: Null, expected: "null"},
		"Int":    {t: Int, expected: "int"},
		"Long":   {t: Long, expected: "int"},
		"Binary": {t: Binary, expected: "binData"},
		"Array":  {t: Array, expected: "array"},
		"Doc":    {t: Document, expected: "object"},
		"Scope":  {t: JavaScriptWithScope, expected: "javascriptWithScope"},
		"Number": {t: Number, expected: bson.A{"double", "int", "int", "decimal"}},
		"StringOrNull": {
			t:        String | Null,
			expected: bson.A{"null", "string"},
		},
		"ArrayOrDocument": {
			t:        Document | Array,
			expected: bson.A{"array", "object"},
		},
	} {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			actual, err := tc.t.Encode()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestBSONTypeEncodeEmpty(t *testing.T) {
	t.Parallel()

	_, err := BSONType(0).Encode()
	assert.ErrorIs(t, err, ErrNoTypes)

	_, _, err = BSONType(0).MarshalBSONValue()
	assert.ErrorIs(t, err, ErrNoTypes)

	_, err = json.Marshal(BSONType(0))
	assert.ErrorIs(t, err, ErrNoTypes)
}

func TestBSONTypeTable(t *testing.T) {
	t.Parallel()

	var all BSONType

	for _, ta := range typeAliases {
		assert.Equal(t, 1, ta.t.Count(), ta.alias)
		assert.False(t, all.Contains(ta.t), "duplicate flag for %q", ta.alias)
		all |= ta.t
	}

	assert.Equal(t, BSONType(0xffff), all)
	assert.Equal(t, BSONType(0b0000_0000_0011_1100), Number)
	assert.Equal(t, 4, Number.Count())
}

func TestParseBSONType(t *testing.T) {
	t.Parallel()

	res, err := ParseBSONType("int")
	require.NoError(t, err)
	assert.Equal(t, Int, res)

	res, err = ParseBSONType("double", "int", "int", "decimal")
	require.NoError(t, err)
	assert.Equal(t, Double|Int|Decimal, res)

	res, err = ParseBSONType("string", "string")
	require.NoError(t, err)
	assert.Equal(t, String, res)

	res, err = ParseBSONType()
	require.NoError(t, err)
	assert.Equal(t, BSONType(0), res)

	_, err = ParseBSONType("array", "long")
	require.ErrorIs(t, err, ErrUnknownTypeAlias)
	assert.EqualError(t, err, `unknown BSON type alias: "long"`)
}

func TestBSONTypeBSON(t *testing.T) {
	t.Parallel()

	typ, data, err := Array.MarshalBSONValue()
	require.NoError(t, err)
	assert.Equal(t, bsontype.String, typ)

	var actual BSONType
	require.NoError(t, actual.UnmarshalBSONValue(typ, data))
	assert.Equal(t, Array, actual)

	typ, data, err = Number.MarshalBSONValue()
	require.NoError(t, err)
	assert.Equal(t, bsontype.Array, typ)

	require.NoError(t, actual.UnmarshalBSONValue(typ, data))
	assert.Equal(t, Double|Int|Decimal, actual, "Long is decoded as Int")

	t.Run("Document", func(t *testing.T) {
		t.Parallel()

		b, err := bson.Marshal(bson.D{{Key: "$type", Value: Date | Timestamp}})
		require.NoError(t, err)

		var res struct {
			Type BSONType `bson:"$type"`
		}
		require.NoError(t, bson.Unmarshal(b, &res))
		assert.Equal(t, Date|Timestamp, res.Type)
	})

	t.Run("UnknownAlias", func(t *testing.T) {
		t.Parallel()

		typ, data, err := bson.MarshalValue(bson.A{"string", "number"})
		require.NoError(t, err)

		var res BSONType
		err = res.UnmarshalBSONValue(typ, data)
		require.ErrorIs(t, err, ErrUnknownTypeAlias)
		assert.Contains(t, err.Error(), `"number"`)
		assert.Equal(t, BSONType(0), res)
	})

	t.Run("InvalidElement", func(t *testing.T) {
		t.Parallel()

		typ, data, err := bson.MarshalValue(bson.A{"string", int32(2)})
		require.NoError(t, err)

		var res BSONType
		err = res.UnmarshalBSONValue(typ, data)
		assert.ErrorIs(t, err, ErrInvalidTypeValue)
	})

	t.Run("InvalidType", func(t *testing.T) {
		t.Parallel()

		typ, data, err := bson.MarshalValue(int32(2))
		require.NoError(t, err)

		var res BSONType
		err = res.UnmarshalBSONValue(typ, data)
		assert.ErrorIs(t, err, ErrInvalidTypeValue)
	})
}

func TestBSONTypeRoundTrip(t *testing.T) {
	t.Parallel()

	// Long can't round trip as it shares the alias with Int
	for i := 1; i <= 0xffff; i++ {
		expected := BSONType(i)
		if expected.Contains(Long) {
			continue
		}

		typ, data, err := expected.MarshalBSONValue()
		require.NoError(t, err)

		var actual BSONType
		require.NoError(t, actual.UnmarshalBSONValue(typ, data))
		require.Equal(t, expected, actual, "%s", expected)
	}
}

func TestBSONTypeJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(ObjectID)
	require.NoError(t, err)
	assert.Equal(t, `"objectId"`, string(b))

	b, err = json.Marshal(Number)
	require.NoError(t, err)
	assert.Equal(t, `["double","int","int","decimal"]`, string(b))

	var res BSONType
	require.NoError(t, json.Unmarshal([]byte(`["regex","binData"]`), &res))
	assert.Equal(t, Regex|Binary, res)

	require.NoError(t, json.Unmarshal([]byte(`"javascript"`), &res))
	assert.Equal(t, JavaScript, res)

	err = json.Unmarshal([]byte(`"symbol"`), &res)
	assert.ErrorIs(t, err, ErrUnknownTypeAlias)

	err = json.Unmarshal([]byte(`2`), &res)
	assert.ErrorIs(t, err, ErrInvalidTypeValue)

	err = json.Unmarshal([]byte(`["bool", 2]`), &res)
	assert.ErrorIs(t, err, ErrInvalidTypeValue)
}

func TestBSONTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BSONType(0)", BSONType(0).String())
	assert.Equal(t, "bool", Bool.String())
	assert.Equal(t, "double|int|int|decimal", Number.String())
}
