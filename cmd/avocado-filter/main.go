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

// Command avocado-filter inspects and canonicalizes query filter documents.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/avocado-db/avocado/internal/canon"
	"github.com/avocado-db/avocado/internal/util/lazyerrors"
	"github.com/avocado-db/avocado/internal/util/logging"
	"github.com/avocado-db/avocado/literal"
)

// The cli struct represents all command-line commands, fields and flags.
// It's used for parsing the user input.
//
//nolint:lll // some tags are long
var cli struct {
	Log struct {
		Level  string `default:"info"    help:"${help_log_level}"  enum:"${enum_log_level}"`
		Format string `default:"console" help:"${help_log_format}" enum:"${enum_log_format}"`
	} `embed:"" prefix:"log-"`

	Fmt struct {
		File      string `arg:"" optional:"" help:"File with a filter document; stdin if omitted."`
		Input     string `default:"extjson" help:"Input format: 'extjson' or 'bson'." enum:"extjson,bson"`
		Canonical bool   `default:"false"   help:"Print canonical Extended JSON instead of relaxed."`
		Check     bool   `default:"false"   help:"Fail if the filter document is not in canonical form."`
	} `cmd:"" help:"Rewrite $type and $options operands of a filter document into canonical form."`

	Types struct {
		Aliases []string `arg:"" help:"BSON type aliases, such as 'string' or 'objectId'."`
	} `cmd:"" help:"Print the $type operand for the union of the given BSON type aliases."`

	Options struct {
		Letters string `arg:"" help:"Regex option letters, such as 'si'."`
	} `cmd:"" help:"Print the canonical $options operand for the given letters."`
}

// Additional variables for the kong parsers.
var kongOptions = []kong.Option{
	kong.Vars{
		"enum_log_level":  strings.Join(logging.Levels, ","),
		"enum_log_format": strings.Join(logging.Formats, ","),

		"help_log_level":  fmt.Sprintf("Log level: '%s'.", strings.Join(logging.Levels, "', '")),
		"help_log_format": fmt.Sprintf("Log format: '%s'.", strings.Join(logging.Formats, "', '")),
	},
	kong.DefaultEnvars("AVOCADO"),
}

// errNotCanonical is returned by `fmt --check` for non-canonical documents.
var errNotCanonical = errors.New("filter document is not canonical")

// fmtOpts represents `fmt` command options.
type fmtOpts struct {
	bsonInput bool // raw BSON instead of Extended JSON
	canonical bool
	check     bool
}

func main() {
	kctx := kong.Parse(&cli, kongOptions...)

	level, err := zapcore.ParseLevel(cli.Log.Level)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.Setup(level, cli.Log.Format)
	if err != nil {
		log.Fatal(err)
	}

	defer logger.Sync() //nolint:errcheck // nothing to do

	if err = run(kctx.Command(), logger); err != nil {
		logger.Sugar().Fatalf("%s failed: %s.", kctx.Command(), err)
	}
}

// run runs the given command.
func run(command string, l *zap.Logger) error {
	opts := &fmtOpts{
		bsonInput: cli.Fmt.Input == "bson",
		canonical: cli.Fmt.Canonical,
		check:     cli.Fmt.Check,
	}

	switch command {
	case "fmt":
		return runFmt(os.Stdin, os.Stdout, opts, l.Named("fmt"))

	case "fmt <file>":
		f, err := os.Open(cli.Fmt.File)
		if err != nil {
			return lazyerrors.Error(err)
		}

		defer f.Close() //nolint:errcheck // read-only file

		return runFmt(f, os.Stdout, opts, l.Named("fmt"))

	case "types <aliases>":
		return runTypes(os.Stdout, cli.Types.Aliases)

	case "options <letters>":
		return runOptions(os.Stdout, cli.Options.Letters)

	default:
		panic(fmt.Sprintf("unknown command %q", command))
	}
}

// runFmt reads a filter document from r and writes its canonical form to w as Extended JSON.
//
// Operator documents such as {"$regex": ..., "$options": ...} and {"$type": ...} are read from
// Extended JSON as ordinary embedded documents, so both input formats are canonicalized the same way.
func runFmt(r io.Reader, w io.Writer, opts *fmtOpts, l *zap.Logger) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return lazyerrors.Error(err)
	}

	raw := bson.Raw(b)

	if opts.bsonInput {
		err = raw.Validate()
	} else {
		raw = nil
		err = bson.UnmarshalExtJSON(b, false, &raw)
	}

	if err != nil {
		return lazyerrors.Error(err)
	}

	res, err := canon.Document(raw, l)
	if err != nil {
		return err
	}

	out, err := bson.MarshalExtJSON(res.Doc, opts.canonical, false)
	if err != nil {
		return lazyerrors.Error(err)
	}

	if _, err = fmt.Fprintln(w, string(out)); err != nil {
		return lazyerrors.Error(err)
	}

	for _, p := range res.Changed {
		l.Info("Operand is not canonical", zap.String("path", p))
	}

	if opts.check && len(res.Changed) > 0 {
		return fmt.Errorf("%w: %s", errNotCanonical, strings.Join(res.Changed, ", "))
	}

	return nil
}

// runTypes writes the `$type` operand for the given aliases to w as JSON.
func runTypes(w io.Writer, aliases []string) error {
	t, err := literal.ParseBSONType(aliases...)
	if err != nil {
		return err
	}

	return writeJSON(w, t)
}

// runOptions writes the `$options` operand for the given letters to w as JSON.
func runOptions(w io.Writer, letters string) error {
	o, err := literal.ParseRegexOpts(letters)
	if err != nil {
		return err
	}

	return writeJSON(w, o)
}

// writeJSON writes v to w as a single line of JSON.
func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintln(w, string(b)); err != nil {
		return lazyerrors.Error(err)
	}

	return nil
}
