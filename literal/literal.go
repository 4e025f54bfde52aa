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

// Package literal provides flag sets used as literal operands of query operators.
//
// [BSONType] is the operand of the `$type` operator; [RegexOpts] is the operand of `$options`.
// Each flag set has a single ordered table of (flag, name) pairs
// used for both encoding and decoding.
//
// Encoded forms are produced by Encode/String methods and by
// [go.mongodb.org/mongo-driver/bson.ValueMarshaler] and [encoding/json.Marshaler] implementations;
// decoding is done by Parse functions and the matching unmarshaler implementations.
package literal

import "errors"

var (
	// ErrNoTypes is returned when an empty BSONType is encoded.
	ErrNoTypes = errors.New("at least one type must be specified")

	// ErrUnknownTypeAlias is returned when decoding an unknown BSON type alias.
	ErrUnknownTypeAlias = errors.New("unknown BSON type alias")

	// ErrInvalidTypeValue is returned when decoding a value that is neither
	// a BSON type alias string nor an array of them.
	ErrInvalidTypeValue = errors.New("expected a BSON type alias string or an array of BSON type alias strings")

	// ErrUnknownRegexOption is returned when decoding an unknown regex option letter.
	ErrUnknownRegexOption = errors.New("unexpected regex option")

	// ErrInvalidRegexOptionsValue is returned when decoding regex options from a value that is not a string.
	ErrInvalidRegexOptionsValue = errors.New("expected a string containing one of [imxs]")
)
