package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain text passes through",
			input: "Bonjour",
			want:  "Bonjour",
		},
		{
			name:  "sound reference removed",
			input: "Hello [sound:bell.mp3]",
			want:  "Hello",
		},
		{
			name:  "br variants become newlines",
			input: "one<br>two<br/>three<BR />four",
			want:  "one\ntwo\nthree\nfour",
		},
		{
			name:  "tags stripped keeping inner text",
			input: `<div class="front"><b>bold</b> and <i>italic</i></div>`,
			want:  "bold and italic",
		},
		{
			name:  "entities decoded",
			input: "a&nbsp;&lt;tag&gt; &quot;x&quot; &amp; y",
			want:  `a <tag> "x" & y`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  padded \n",
			want:  "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}

func TestPlainTextEntityOrder(t *testing.T) {
	// &amp; decodes last: escaped entity notation must surface as the
	// entity text, never get expanded a second time.
	assert.Equal(t, "a &lt; b", PlainText("a &amp;lt; b"))
	assert.Equal(t, "&amp;", PlainText("&amp;amp;"))
}

func TestPlainTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"Hello [sound:bell.mp3]<br><b>World</b>",
		"a&nbsp;&lt;tag&gt;",
		"  padded  ",
	}
	for _, in := range inputs {
		once := PlainText(in)
		assert.Equal(t, once, PlainText(once), "input %q", in)
	}
}

func TestDisplayHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "bare src gains media prefix",
			input: `<img src="cat.jpg">`,
			want:  `<img src="media/cat.jpg">`,
		},
		{
			name:  "already prefixed src untouched",
			input: `<img src="media/cat.jpg">`,
			want:  `<img src="media/cat.jpg">`,
		},
		{
			name:  "absolute url untouched",
			input: `<img src="https://example.com/cat.jpg">`,
			want:  `<img src="https://example.com/cat.jpg">`,
		},
		{
			name:  "sound reference becomes audio element",
			input: "ring [sound:bell.mp3]",
			want:  `ring <audio controls src="media/bell.mp3"></audio>`,
		},
		{
			name:  "other markup passes through",
			input: "<b>bold</b> &amp; <i>italic</i>",
			want:  "<b>bold</b> &amp; <i>italic</i>",
		},
		{
			name:  "multiple src attributes rewritten independently",
			input: `<img src="a.png"><img src="http://x/b.png">`,
			want:  `<img src="media/a.png"><img src="http://x/b.png">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayHTML(tt.input))
		})
	}
}
