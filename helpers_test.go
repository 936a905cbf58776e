package inkwell

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Trimmed  ", "trimmed"},
		{"Already-Slugged", "already-slugged"},
		{"Special!@#Chars", "special-chars"},
		{"Trailing punctuation!", "trailing-punctuation"},
		{"MixedCase123", "mixedcase123"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("http://example.com/base", "posts", "42")
	if got != "http://example.com/base/posts/42" {
		t.Errorf("BuildURL = %q", got)
	}
}

func TestRelatedPosts(t *testing.T) {
	current := Post{ID: 1, Tags: []Tag{{ID: 10}, {ID: 11}}}
	posts := []Post{
		{ID: 1, Tags: []Tag{{ID: 10}}},            // current itself, excluded
		{ID: 2, Tags: []Tag{{ID: 10}, {ID: 99}}},  // shares tag 10
		{ID: 3, Tags: []Tag{{ID: 99}}},            // no shared tag
		{ID: 4, Tags: []Tag{{ID: 11}}},            // shares tag 11
	}

	related := RelatedPosts(current, posts)
	if len(related) != 2 {
		t.Fatalf("got %d related posts, want 2", len(related))
	}
	if related[0].ID != 2 || related[1].ID != 4 {
		t.Errorf("related = %v, want posts 2 and 4", related)
	}
}
