package views

import (
	"encoding/json"
	"html"
	"io"
	"net/url"
	"path"
	"strconv"
)

// htmlWriter accumulates markup and remembers the first write error, so
// component bodies can stay free of per-write error checks.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(html.EscapeString(s))
}

func (h *htmlWriter) attr(s string) {
	h.raw(html.EscapeString(s))
}

func (h *htmlWriter) int(n int64) {
	h.raw(strconv.FormatInt(n, 10))
}

// buildURL joins path segments onto a base URL.
func buildURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(segments...))
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite block for the layout head.
func WebsiteJsonLD(site Site) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.BaseURL,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting block for a post page.
func BlogPostingJsonLD(site Site, post Post) string {
	postURL := buildURL(site.BaseURL, "posts", strconv.FormatInt(post.ID, 10))
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.PublishedAt,
		"url":           postURL,
		"author":        map[string]string{"@type": "Person", "name": post.Author},
		"publisher":     map[string]string{"@type": "Organization", "name": site.Name},
	}
	if post.CoverImageURL != "" {
		data["image"] = post.CoverImageURL
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
