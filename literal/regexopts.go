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
	"strconv"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RegexOpts is a set of options for matching text against a regular expression.
type RegexOpts uint8

const (
	// IgnoreCase enables case insensitive matching.
	IgnoreCase = RegexOpts(1 << iota) // i
	// LineAnchor makes `^` and `$` match the beginning and the end of lines, not the whole string.
	LineAnchor // m
	// Extended enables "extended" syntax that allows embedded whitespace and `#`-comments.
	Extended // x
	// DotNewline makes the `.` character match newlines too.
	DotNewline // s
)

// allRegexOpts is a union of all known options.
const allRegexOpts = IgnoreCase | LineAnchor | Extended | DotNewline

// optionLetters contains all regex options with their letters, in encoding order.
var optionLetters = []struct {
	o      RegexOpts
	letter byte
}{
	{IgnoreCase, 'i'},
	{LineAnchor, 'm'},
	{Extended, 'x'},
	{DotNewline, 's'},
}

// ParseRegexOpts returns options for the given letters.
//
// Repeated letters are allowed. The string is scanned byte by byte,
// so the error for invalid UTF-8 names the offending byte.
func ParseRegexOpts(s string) (RegexOpts, error) {
	var res RegexOpts

	for i := 0; i < len(s); i++ {
		c := s[i]

		o, ok := optionForLetter(c)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownRegexOption, quoteByte(c))
		}

		res |= o
	}

	return res, nil
}

func optionForLetter(c byte) (RegexOpts, bool) {
	for _, ol := range optionLetters {
		if ol.letter == c {
			return ol.o, true
		}
	}

	return 0, false
}

// quoteByte returns a single-quoted Go literal for c, such as 'u' or '\xff'.
func quoteByte(c byte) string {
	if c >= utf8.RuneSelf {
		return fmt.Sprintf(`'\x%02x'`, c)
	}

	return strconv.QuoteRune(rune(c))
}

// Contains returns true if all options of other are present in o.
func (o RegexOpts) Contains(other RegexOpts) bool {
	return o&other == other
}

// IsEmpty returns true if no known options are set.
func (o RegexOpts) IsEmpty() bool {
	return o&allRegexOpts == 0
}

// String returns the `$options` operand: letters of all set options in `imxs` order.
// Unknown bits are ignored.
func (o RegexOpts) String() string {
	res := make([]byte, 0, len(optionLetters))

	for _, ol := range optionLetters {
		if o.Contains(ol.o) {
			res = append(res, ol.letter)
		}
	}

	return string(res)
}

// MarshalBSONValue implements [bson.ValueMarshaler] interface.
func (o RegexOpts) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(o.String())
}

// UnmarshalBSONValue implements [bson.ValueUnmarshaler] interface.
func (o *RegexOpts) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: typ, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("%w: got %s", ErrInvalidRegexOptionsValue, typ)
	}

	res, err := ParseRegexOpts(s)
	if err != nil {
		return err
	}

	*o = res

	return nil
}

// MarshalJSON implements [json.Marshaler] interface.
func (o RegexOpts) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON implements [json.Unmarshaler] interface.
func (o *RegexOpts) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRegexOptionsValue, err)
	}

	res, err := ParseRegexOpts(s)
	if err != nil {
		return err
	}

	*o = res

	return nil
}

// check interfaces
var (
	_ fmt.Stringer          = RegexOpts(0)
	_ bson.ValueMarshaler   = RegexOpts(0)
	_ bson.ValueUnmarshaler = (*RegexOpts)(nil)
	_ json.Marshaler        = RegexOpts(0)
	_ json.Unmarshaler      = (*RegexOpts)(nil)
)
