// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveImageMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inline image on its own line",
			input: "# Title\n\n![logo](media/image1.png)\n\nBody text.\n",
			want:  "# Title\n\nBody text.\n",
		},
		{
			name:  "inline image mid sentence",
			input: "See ![chart](c.png) here.",
			want:  "See  here.",
		},
		{
			name:  "reference style image",
			input: "Intro\n![diagram][fig1]\n\n\n\nOutro\n\n[fig1]: fig1.png\n",
			want:  "Intro\n\nOutro\n\n[fig1]: fig1.png\n",
		},
		{
			name:  "data uri and empty alt",
			input: "A ![](data:image/png;base64,iVBORw0KGgo=) B",
			want:  "A  B",
		},
		{
			name:  "links are kept",
			input: "[docs](https://example.com) and ![x](y)\n",
			want:  "[docs](https://example.com) and\n",
		},
		{
			name:  "trailing whitespace trimmed before newlines",
			input: "line one   \nline two\t\n",
			want:  "line one\nline two\n",
		},
		{
			name:  "no trailing newline stays without one",
			input: "text\n\n\n\nmore",
			want:  "text\n\nmore",
		},
		{
			name:  "spliced embed removed too",
			input: "!![a](b)[c](d)",
			want:  "",
		},
		{
			name:  "crlf blank run collapsed",
			input: "a\r\n![x](y)\r\n\r\n\r\n\r\nb\r\n",
			want:  "a\r\n\r\nb\r\n",
		},
		{
			name:  "crlf trailing whitespace trimmed",
			input: "one  \r\ntwo\t\r\n",
			want:  "one\r\ntwo\r\n",
		},
		{
			name:  "mixed endings keep the first two found",
			input: "a\n\r\n\n\r\nb",
			want:  "a\n\r\nb",
		},
		{
			name:  "deeply spliced embeds",
			input: strings.Repeat("!", 200) + "[a](b)" + strings.Repeat("[c](d)", 199) + "\n",
			want:  "\n",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveImageMarkdown(tt.input))
		})
	}
}

func TestRemoveImageMarkdown_Properties(t *testing.T) {
	alphabet := []string{"!", "[", "]", "(", ")", "\n", "\n", "\r\n", " ", "\t", "a", "img", "![x](y)", "![r][1]"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		var b strings.Builder
		n := rng.Intn(40)
		for j := 0; j < n; j++ {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		input := b.String()

		once := RemoveImageMarkdown(input)
		if HasImageMarkdown(once) {
			t.Fatalf("image markup left in %q (input %q)", once, input)
		}
		if blankRunPattern.MatchString(once) {
			t.Fatalf("blank-line run left in %q (input %q)", once, input)
		}
		if twice := RemoveImageMarkdown(once); twice != once {
			t.Fatalf("not idempotent for input %q: %q then %q", input, once, twice)
		}
		if strings.HasSuffix(input, "\n") && !strings.HasSuffix(once, "\n") {
			t.Fatalf("trailing newline lost for input %q", input)
		}
	}
}
