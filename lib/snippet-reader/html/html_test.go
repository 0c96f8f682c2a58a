/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package html

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
)

func TestHtmlToText(t *testing.T) {
	type args struct {
		r io.Reader
	}
	tests := []struct {
		name string
		args args
		want []snippet_reader.Value
	}{
		{
			name: "empty body",
			args: args{
				r: bytes.NewBufferString(""),
			},
			want: []snippet_reader.Value{
				{Err: io.EOF},
			},
		},
		{
			name: "includes break",
			args: args{
				r: bytes.NewBufferString("  <body>  x<sup>2</sup> <strike>hello</strike><br/>dave</body>"),
			},
			want: wrapSnips([]*snippet_reader.Snippet{
				{
					Text:   "  x2 hello\ndave\n",
					Offset: 8,
					Xpath:  "/body",
				}}...),
		},
		{
			name: "only sends snippets at block elements",
			args: args{
				r: bytes.NewBufferString("<p>We used <b>GROBID</b> 0.5.4</p>"),
			},
			want: wrapSnips([]*snippet_reader.Snippet{
				{
					Text:   "We used GROBID 0.5.4\n",
					Offset: 3,
					Xpath:  "/p",
				},
			}...),
		},
		{
			name: "skips scripts",
			args: args{
				r: bytes.NewBufferString("<div><script>var x</script><p>Hi</p></div>"),
			},
			want: wrapSnips([]*snippet_reader.Snippet{
				{
					Text:   "Hi\n",
					Offset: 30,
					Xpath:  "/div/*[2]",
				},
			}...),
		},
		{
			name: "void elements",
			args: args{
				r: bytes.NewBufferString("<p>R<br>&amp;<meta charset=x> SPSS</p><p>next</p>"),
			},
			want: wrapSnips([]*snippet_reader.Snippet{
				{
					Text:   "R\n& SPSS\n",
					Offset: 3,
					Xpath:  "/p",
				},
				{
					Text:   "next\n",
					Offset: 41,
					Xpath:  "/p",
				},
			}...),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []snippet_reader.Value
			for val := range ReadSnippets(tt.args.r) {
				got = append(got, val)
			}
			assert.EqualValues(t, tt.want, got)
		})
	}
}

func TestReadSnippetsWithCallback(t *testing.T) {
	stop := errors.New("stop")
	var texts []string
	err := SnippetReader{}.ReadSnippetsWithCallback(bytes.NewBufferString("<p>a</p><p>b</p><p>c</p>"), func(s *snippet_reader.Snippet) error {
		texts = append(texts, s.Text)
		if len(texts) == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, []string{"a\n", "b\n"}, texts)
}

func Test_htmlStack_xpath(t *testing.T) {
	testStack := func(tags ...*htmlTag) htmlStack {
		stack := htmlStack{}
		for _, tag := range tags {
			stack.push(tag)
		}
		return stack
	}
	tests := []struct {
		stack    htmlStack
		expected string
	}{
		{
			expected: "/html/*[2]/*[4]/*[5]/*[3]",
			stack: testStack(
				&htmlTag{name: "html", children: 1},
				&htmlTag{name: "body", children: 3},
				&htmlTag{name: "main", children: 4},
				&htmlTag{name: "article", children: 2},
				&htmlTag{name: "section", children: 2},
			),
		},
		{
			expected: "/TEI",
			stack:    testStack(&htmlTag{name: "TEI"}),
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.stack.xpath())
	}
}

func wrapSnips(snips ...*snippet_reader.Snippet) []snippet_reader.Value {
	var values []snippet_reader.Value
	for _, snip := range snips {
		values = append(values, snippet_reader.Value{Snippet: snip})
	}
	values = append(values, snippet_reader.Value{Err: io.EOF})
	return values
}
