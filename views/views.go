// Package views renders the public and admin pages as templ components. The
// components write markup directly; all dynamic text passes through HTML
// escaping, and post bodies go through the markdown renderer.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/inkwell/markdown"
)

// Document is the outer HTML shell: head metadata, asset links, the page
// markup, and the serialized loader data for client hydration.
func Document(p DocumentProps, page templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		lang := p.Lang
		if lang == "" {
			lang = "en"
		}
		h.raw(`<!doctype html><html lang="`)
		h.attr(lang)
		h.raw(`"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		h.text(p.Title)
		h.raw(`</title>`)
		if p.Description != "" {
			h.raw(`<meta name="description" content="`)
			h.attr(p.Description)
			h.raw(`"/>`)
		}
		for _, href := range p.Styles {
			h.raw(`<link rel="stylesheet" href="`)
			h.attr(href)
			h.raw(`"/>`)
		}
		h.raw(`</head><body><div id="root">`)
		if h.err != nil {
			return h.err
		}
		if page != nil {
			if err := page.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</div>`)
		if p.InitialData != "" {
			h.raw(`<script>window.__INITIAL_DATA__ = `)
			h.raw(p.InitialData)
			h.raw(`;</script>`)
		}
		for _, src := range p.Scripts {
			h.raw(`<script type="module" src="`)
			h.attr(src)
			h.raw(`"></script>`)
		}
		h.raw(`</body></html>`)
		return h.err
	})
}

// SiteLayout frames every public page: header navigation from the category
// list, the child outlet, and a sidebar with tags and the archive.
func SiteLayout(site Site, categories []Category, tags []Tag, archive []ArchiveStat, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<script type="application/ld+json">` + WebsiteJsonLD(site) + `</script>`)
		h.raw(`<header class="site-header"><a class="site-title" href="/">`)
		h.text(site.Name)
		h.raw(`</a><nav class="site-nav">`)
		for _, c := range categories {
			h.raw(`<a href="/categories/`)
			h.attr(c.Slug)
			h.raw(`">`)
			h.text(c.Name)
			h.raw(`</a>`)
		}
		h.raw(`</nav></header><div class="site-body"><main class="site-main">`)
		if h.err != nil {
			return h.err
		}
		if children != nil {
			if err := children.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</main><aside class="site-aside">`)
		if len(tags) > 0 {
			h.raw(`<section class="tag-cloud"><h2>Tags</h2>`)
			for _, t := range tags {
				h.raw(`<a class="tag" href="/tags/`)
				h.attr(t.Slug)
				h.raw(`">`)
				h.text(t.Name)
				h.raw(`</a>`)
			}
			h.raw(`</section>`)
		}
		if len(archive) > 0 {
			h.raw(`<section class="archive-list"><h2>Archive</h2><ul>`)
			for _, a := range archive {
				h.raw(`<li><a href="/archive/` + strconv.Itoa(a.Year) + `">` + strconv.Itoa(a.Year) + `</a> (` + strconv.Itoa(a.Count) + `)</li>`)
			}
			h.raw(`</ul></section>`)
		}
		h.raw(`</aside></div><footer class="site-footer"><p>&copy; `)
		h.text(site.Author)
		h.raw(`</p></footer>`)
		return h.err
	})
}

// Home renders the published post list.
func Home(posts []Post, page int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="post-list">`)
		if len(posts) == 0 {
			h.raw(`<p class="empty">No posts yet.</p>`)
		}
		for _, p := range posts {
			postCard(h, p)
		}
		h.raw(`</section><nav class="pager">`)
		if page > 1 {
			h.raw(`<a href="/?page=` + strconv.Itoa(page-1) + `" rel="prev">Newer</a>`)
		}
		h.raw(`<a href="/?page=` + strconv.Itoa(page+1) + `" rel="next">Older</a></nav>`)
		return h.err
	})
}

func postCard(h *htmlWriter, p Post) {
	h.raw(`<article class="post-card"><h2><a href="/posts/`)
	h.int(p.ID)
	h.raw(`">`)
	h.text(p.Title)
	h.raw(`</a></h2><p class="post-meta">`)
	h.text(p.PublishedAt)
	h.raw(` &middot; <a href="/categories/`)
	h.attr(p.Category.Slug)
	h.raw(`">`)
	h.text(p.Category.Name)
	h.raw(`</a> &middot; ` + strconv.Itoa(p.ReadTime) + ` min read</p>`)
	if p.Summary != "" {
		h.raw(`<p class="post-summary">`)
		h.text(p.Summary)
		h.raw(`</p>`)
	}
	h.raw(`</article>`)
}

// PostPage renders a full post with its markdown body and related posts.
func PostPage(site Site, post Post, related []Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<script type="application/ld+json">` + BlogPostingJsonLD(site, post) + `</script>`)
		h.raw(`<article class="post"><header><h1>`)
		h.text(post.Title)
		h.raw(`</h1><p class="post-meta">`)
		h.text(post.PublishedAt)
		h.raw(` &middot; `)
		h.text(post.Author)
		h.raw(` &middot; ` + strconv.Itoa(post.ReadTime) + ` min read &middot; `)
		h.int(post.Views)
		h.raw(` views</p>`)
		if post.CoverImageURL != "" {
			h.raw(`<img class="post-cover" src="`)
			h.attr(post.CoverImageURL)
			h.raw(`" alt=""/>`)
		}
		h.raw(`</header><div class="post-content">`)
		if h.err != nil {
			return h.err
		}
		if err := markdown.Component(post.Content).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div><footer class="post-tags">`)
		for _, t := range post.Tags {
			h.raw(`<span class="tag">`)
			h.text(t.Name)
			h.raw(`</span>`)
		}
		h.raw(`</footer></article>`)
		if len(related) > 0 {
			h.raw(`<section class="related"><h2>Related posts</h2><ul>`)
			for _, r := range related {
				h.raw(`<li><a href="/posts/`)
				h.int(r.ID)
				h.raw(`">`)
				h.text(r.Title)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></section>`)
		}
		return h.err
	})
}

// CategoryPage lists the posts in one category.
func CategoryPage(category Category, posts []Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="category"><h1>`)
		h.text(category.Name)
		h.raw(`</h1><p class="post-meta">` + strconv.Itoa(category.PostCount) + ` posts</p>`)
		for _, p := range posts {
			postCard(h, p)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// TagPage lists the posts carrying one tag.
func TagPage(tag Tag, posts []Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="tag-page"><h1>`)
		h.text(tag.Name)
		h.raw(`</h1>`)
		if len(posts) == 0 {
			h.raw(`<p class="empty">No posts with this tag yet.</p>`)
		}
		for _, p := range posts {
			postCard(h, p)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// ArchivePage lists the posts published in one year.
func ArchivePage(year int, posts []Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="archive"><h1>` + strconv.Itoa(year) + `</h1>`)
		if len(posts) == 0 {
			h.raw(`<p class="empty">Nothing published this year.</p>`)
		}
		for _, p := range posts {
			postCard(h, p)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// NotFoundPage is the fixed 404 document body.
func NotFoundPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main class="error-page"><h1>404</h1><p>This page does not exist.</p><a href="/">Back to the front page</a></main>`)
		return err
	})
}

// ServerErrorPage is the fixed 500 document body. It never carries detail
// about the failure.
func ServerErrorPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main class="error-page"><h1>500</h1><p>Something went wrong on our side.</p><a href="/">Back to the front page</a></main>`)
		return err
	})
}

// ErrorPage is the document body for the remaining error statuses, such as a
// 405 on a page route.
func ErrorPage(code int, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="error-page"><h1>` + strconv.Itoa(code) + `</h1><p>`)
		h.text(text)
		h.raw(`</p><a href="/">Back to the front page</a></main>`)
		return h.err
	})
}
