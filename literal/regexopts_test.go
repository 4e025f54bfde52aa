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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestRegexOptsString(t *testing.T) {
	t.Parallel()

	for expected, o := range map[string]RegexOpts{
		"":     0,
		"i":    IgnoreCase,
		"s":    DotNewline,
		"ms":   DotNewline | LineAnchor,
		"ix":   Extended | IgnoreCase,
		"imxs": DotNewline | Extended | LineAnchor | IgnoreCase,
	} {
		assert.Equal(t, expected, o.String())
	}

	assert.Equal(t, "m", (LineAnchor | 0xf0).String())
	assert.True(t, RegexOpts(0xf0).IsEmpty())
	assert.False(t, Extended.IsEmpty())
}

func TestRegexOptsRoundTrip(t *testing.T) {
	t.Parallel()

	for i := 0; i < 16; i++ {
		expected := RegexOpts(i)
		s := expected.String()

		// each letter exactly once, in order
		var letters string
		for _, l := range "imxs" {
			assert.LessOrEqual(t, strings.Count(s, string(l)), 1)
			if strings.ContainsRune(s, l) {
				letters += string(l)
			}
		}
		assert.Equal(t, letters, s)

		actual, err := ParseRegexOpts(s)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		typ, data, err := expected.MarshalBSONValue()
		require.NoError(t, err)
		assert.Equal(t, bsontype.String, typ)

		var decoded RegexOpts
		require.NoError(t, decoded.UnmarshalBSONValue(typ, data))
		assert.Equal(t, expected, decoded)
	}
}

func TestParseRegexOpts(t *testing.T) {
	t.Parallel()

	o, err := ParseRegexOpts("sixm")
	require.NoError(t, err)
	assert.Equal(t, "imxs", o.String())

	o, err = ParseRegexOpts("iii")
	require.NoError(t, err)
	assert.Equal(t, IgnoreCase, o)

	_, err = ParseRegexOpts("imu")
	require.ErrorIs(t, err, ErrUnknownRegexOption)
	assert.EqualError(t, err, `unexpected regex option: 'u'`)

	_, err = ParseRegexOpts("I")
	assert.ErrorIs(t, err, ErrUnknownRegexOption)

	_, err = ParseRegexOpts("i\xff")
	require.ErrorIs(t, err, ErrUnknownRegexOption)
	assert.EqualError(t, err, `unexpected regex option: '\xff'`)

	_, err = ParseRegexOpts("é")
	require.ErrorIs(t, err, ErrUnknownRegexOption)
	assert.EqualError(t, err, `unexpected regex option: '\xc3'`)
}

func TestRegexOptsBSON(t *testing.T) {
	t.Parallel()

	b, err := bson.Marshal(bson.D{{Key: "$options", Value: IgnoreCase | DotNewline}})
	require.NoError(t, err)

	var res struct {
		Options RegexOpts `bson:"$options"`
	}
	require.NoError(t, bson.Unmarshal(b, &res))
	assert.Equal(t, IgnoreCase|DotNewline, res.Options)

	typ, data, err := bson.MarshalValue(int32(1))
	require.NoError(t, err)

	var o RegexOpts
	assert.ErrorIs(t, o.UnmarshalBSONValue(typ, data), ErrInvalidRegexOptionsValue)

	typ, data, err = bson.MarshalValue("iq")
	require.NoError(t, err)
	assert.ErrorIs(t, o.UnmarshalBSONValue(typ, data), ErrUnknownRegexOption)
}

func TestRegexOptsJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(LineAnchor | IgnoreCase)
	require.NoError(t, err)
	assert.Equal(t, `"im"`, string(b))

	var o RegexOpts
	require.NoError(t, json.Unmarshal([]byte(`"xs"`), &o))
	assert.Equal(t, Extended|DotNewline, o)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"z"`), &o), ErrUnknownRegexOption)
	assert.ErrorIs(t, json.Unmarshal([]byte(`1`), &o), ErrInvalidRegexOptionsValue)
}
