package markdown

import (
	"strings"
	"testing"
)

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "# Title", "<h1>Title</h1>"},
		{"subheading", "## Sub", "<h2>Sub</h2>"},
		{"paragraph", "hello world", "<p>hello world</p>"},
		{"list", "- one\n- two", "<ul><li>one</li><li>two</li></ul>"},
		{"quote", "> wisdom", "<blockquote>wisdom </blockquote>"},
		{"rule", "---", "<hr/>"},
		{"bold", "**loud**", "<p><strong>loud</strong></p>"},
		{"italic", "*soft*", "<p><em>soft</em></p>"},
		{"inline code", "use `go vet`", "<p>use <code>go vet</code></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderCodeBlockEscapes(t *testing.T) {
	got := Render("```\n<script>alert(1)</script>\n```")
	if strings.Contains(got, "<script>") {
		t.Fatalf("code block leaked raw HTML: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Fatalf("code block should escape HTML: %q", got)
	}
}

func TestRenderEscapesInlineHTML(t *testing.T) {
	got := Render(`<img src=x onerror=alert(1)>`)
	if strings.Contains(got, "<img") {
		t.Fatalf("inline HTML must be escaped: %q", got)
	}
}

func TestRenderLinks(t *testing.T) {
	got := Render("[home](/about)")
	if !strings.Contains(got, `<a href="/about">home</a>`) {
		t.Fatalf("relative link not rendered: %q", got)
	}

	got = Render("[evil](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Fatalf("javascript scheme must be dropped: %q", got)
	}
	if !strings.Contains(got, "evil") {
		t.Fatalf("link text should survive a dropped URL: %q", got)
	}
}

func TestRenderImage(t *testing.T) {
	got := Render("![cover](/uploads/a.jpg)")
	if !strings.Contains(got, `<img src="/uploads/a.jpg" alt="cover"`) {
		t.Fatalf("image not rendered: %q", got)
	}
}

func TestRenderParagraphJoinsLines(t *testing.T) {
	got := Render("line one\nline two")
	if got != "<p>line one line two</p>" {
		t.Fatalf("Render = %q", got)
	}
}
