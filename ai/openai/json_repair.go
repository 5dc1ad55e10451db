// Copyright 2026 Latforge Labs
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


package openai

import "strings"

// repairJSON patches the one malformation small local models produce often
// enough to matter: an object key missing its opening quote, as in
// `{ module": "KYC/KYB"` or `, estimated_price": "$0.50"`. Anything it does
// not recognize passes through untouched.
func repairJSON(s string) string {
	in := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	i := 0
	for i < len(in) {
		ch := in[i]
		out.WriteRune(ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		// Carry whitespace after the delimiter through unchanged.
		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			out.WriteRune(in[i])
			i++
		}

		// A bare identifier here is only a broken key when it runs
		// straight into `":`.
		if i >= len(in) || in[i] == '"' || !isLetter(in[i]) {
			continue
		}
		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_' || in[i] == ' ') {
			i++
		}

		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			// Insert the opening quote and trim stray edge spaces
			// inside the key; the closing quote is already there.
			out.WriteRune('"')
			for j := start; j < i; j++ {
				if in[j] != ' ' || (j > start && j < i-1) {
					out.WriteRune(in[j])
				}
			}
		} else {
			// Not a key after all, copy what was scanned as-is.
			for j := start; j < i; j++ {
				out.WriteRune(in[j])
			}
		}
	}

	return out.String()
}
