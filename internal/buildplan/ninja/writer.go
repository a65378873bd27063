// Copyright 2011 Google Inc. All Rights Reserved.
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

// Package ninja generates .ninja build files. It is not a required piece of
// ninja itself; it is a helper for build-file-generation systems, such as
// the one in this module, that already need to emit one.
package ninja

import (
	"io"
	"sort"
	"strings"
)

// EscapePath escapes a path for embedding in a build/rule line.
func EscapePath(word string) string {
	word = strings.ReplaceAll(word, "$ ", "$$ ")
	word = strings.ReplaceAll(word, " ", "$ ")
	word = strings.ReplaceAll(word, ":", "$:")
	return word
}

// Escape escapes a string for embedding into a variable value. Ninja's only
// metacharacter is '$'.
func Escape(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Writer emits a .ninja file to an underlying io.Writer, wrapping long
// lines at width columns the way the reference generator does.
type Writer struct {
	out   io.Writer
	width int
}

// NewWriter returns a Writer with the conventional 78-column wrap width.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out, width: 78}
}

func (w *Writer) Newline() {
	io.WriteString(w.out, "\n")
}

func (w *Writer) Comment(text string) {
	for _, line := range wrapText(text, w.width-2) {
		io.WriteString(w.out, "# "+line+"\n")
	}
}

func (w *Writer) Separator(text string) {
	pad := w.width - 10 - len(text)
	if pad < 0 {
		pad = 0
	}
	io.WriteString(w.out, "# --- "+text+" ---"+strings.Repeat("-", pad)+" #\n\n")
}

// Variable writes "key = value", joining a slice with spaces and dropping
// empty elements. A nil value writes nothing at all.
func (w *Writer) Variable(key string, value any, indent int) {
	if value == nil {
		return
	}
	var s string
	switch v := value.(type) {
	case []string:
		var parts []string
		for _, p := range v {
			if p != "" {
				parts = append(parts, p)
			}
		}
		s = strings.Join(parts, " ")
	case string:
		s = v
	default:
		return
	}
	w.line(key+" = "+s, indent)
}

func (w *Writer) Pool(name string, depth int) {
	w.line("pool "+name, 0)
	w.Variable("depth", itoa(depth), 1)
}

// RuleOptions configures an optional attribute of a Rule statement.
type RuleOptions struct {
	Description string
	Depfile     string
	Generator   bool
	Pool        string
	Restat      bool
	Deps        string
}

func (w *Writer) Rule(name, command string, opts RuleOptions) {
	w.line("rule "+name, 0)
	w.Variable("command", command, 1)
	if opts.Description != "" {
		w.Variable("description", opts.Description, 1)
	}
	if opts.Depfile != "" {
		w.Variable("depfile", opts.Depfile, 1)
	}
	if opts.Generator {
		w.Variable("generator", "1", 1)
	}
	if opts.Pool != "" {
		w.Variable("pool", opts.Pool, 1)
	}
	if opts.Restat {
		w.Variable("restat", "1", 1)
	}
	if opts.Deps != "" {
		w.Variable("deps", opts.Deps, 1)
	}
}

// BuildOptions configures the optional edge attributes of a Build
// statement.
type BuildOptions struct {
	Implicit        []string
	OrderOnly       []string
	Variables       map[string]string
	ImplicitOutputs []string
	Pool            string
}

// Build emits one build edge: outputs : rule inputs [| implicit] [|| order-only].
func (w *Writer) Build(outputs []string, rule string, inputs []string, opts BuildOptions) []string {
	outEscaped := mapEscape(outputs)
	allInputs := mapEscape(inputs)

	if len(opts.Implicit) > 0 {
		allInputs = append(allInputs, "|")
		allInputs = append(allInputs, mapEscape(opts.Implicit)...)
	}
	if len(opts.OrderOnly) > 0 {
		allInputs = append(allInputs, "||")
		allInputs = append(allInputs, mapEscape(opts.OrderOnly)...)
	}
	if len(opts.ImplicitOutputs) > 0 {
		outEscaped = append(outEscaped, "|")
		outEscaped = append(outEscaped, mapEscape(opts.ImplicitOutputs)...)
	}

	words := append([]string{rule}, allInputs...)
	w.line("build "+strings.Join(outEscaped, " ")+": "+strings.Join(words, " "), 0)

	if opts.Pool != "" {
		io.WriteString(w.out, "  pool = "+opts.Pool+"\n")
	}
	keys := make([]string, 0, len(opts.Variables))
	for k := range opts.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.Variable(k, opts.Variables[k], 1)
	}

	return outputs
}

func (w *Writer) Include(path string) {
	w.line("include "+path, 0)
}

func (w *Writer) Subninja(path string) {
	w.line("subninja "+path, 0)
}

func (w *Writer) Default(paths []string) {
	w.line("default "+strings.Join(paths, " "), 0)
}

func countDollarsBefore(s string, i int) int {
	count := 0
	j := i - 1
	for j > 0 && s[j] == '$' {
		count++
		j--
	}
	return count
}

// line wraps text at w.width columns, breaking on an unescaped space and
// continuing with a trailing "$" the way every other .ninja generator does.
func (w *Writer) line(text string, indent int) {
	leading := strings.Repeat("  ", indent)

	for len(leading)+len(text) > w.width {
		available := w.width - len(leading) - len(" $")
		space := rfindUnescapedSpace(text, available)
		if space < 0 {
			space = findUnescapedSpace(text, available-1)
		}
		if space < 0 {
			break
		}

		io.WriteString(w.out, leading+text[:space]+" $\n")
		text = text[space+1:]
		leading = strings.Repeat("  ", indent+2)
	}

	io.WriteString(w.out, leading+text+"\n")
}

func rfindUnescapedSpace(text string, upTo int) int {
	if upTo > len(text) {
		upTo = len(text)
	}
	for {
		idx := strings.LastIndex(text[:max(upTo, 0)], " ")
		if idx < 0 {
			return -1
		}
		if countDollarsBefore(text, idx)%2 == 0 {
			return idx
		}
		upTo = idx
	}
}

func findUnescapedSpace(text string, from int) int {
	if from < 0 {
		from = 0
	}
	for {
		idx := strings.Index(text[min(from, len(text)):], " ")
		if idx < 0 {
			return -1
		}
		idx += min(from, len(text))
		if countDollarsBefore(text, idx)%2 == 0 {
			return idx
		}
		from = idx + 1
	}
}

func mapEscape(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = EscapePath(p)
	}
	return out
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, word := range words[1:] {
		if len(cur)+1+len(word) > width {
			lines = append(lines, cur)
			cur = word
		} else {
			cur += " " + word
		}
	}
	lines = append(lines, cur)
	return lines
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
