package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// AdminLogin renders the login form, with an optional failure message from a
// previous submission.
func AdminLogin(errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="admin-login"><h1>Sign in</h1>`)
		if errorMsg != "" {
			h.raw(`<p class="form-error" role="alert">`)
			h.text(errorMsg)
			h.raw(`</p>`)
		}
		h.raw(`<form method="post" action="/admin/login">` +
			`<label>Username<input type="text" name="username" autocomplete="username" required/></label>` +
			`<label>Password<input type="password" name="password" autocomplete="current-password" required/></label>` +
			`<button type="submit">Sign in</button></form></main>`)
		return h.err
	})
}

// AdminLayout frames the admin pages with the signed-in principal and a
// logout control.
func AdminLayout(username, role string, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="admin-header"><a href="/admin">Dashboard</a><span class="principal">`)
		h.text(username)
		h.raw(` (`)
		h.text(role)
		h.raw(`)</span><form method="post" action="/api/auth/logout"><button type="submit">Sign out</button></form></header><main class="admin-main">`)
		if h.err != nil {
			return h.err
		}
		if children != nil {
			if err := children.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</main>`)
		return h.err
	})
}

// AdminDashboard shows the content counters, the categories the principal
// may manage, and recent posts including drafts.
func AdminDashboard(stats DashboardStats, categories []Category, posts []Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="stats">`)
		statCard(h, "Posts", int64(stats.Posts))
		statCard(h, "Categories", int64(stats.Categories))
		statCard(h, "Tags", int64(stats.Tags))
		statCard(h, "Users", int64(stats.Users))
		statCard(h, "Total views", stats.TotalViews)
		h.raw(`</section><section class="manageable"><h2>Your categories</h2><ul>`)
		for _, c := range categories {
			h.raw(`<li><a href="/categories/`)
			h.attr(c.Slug)
			h.raw(`">`)
			h.text(c.Name)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></section><section class="recent"><h2>Recent posts</h2><table><thead><tr><th>Title</th><th>Category</th><th>Status</th><th>Views</th></tr></thead><tbody>`)
		for _, p := range posts {
			h.raw(`<tr><td><a href="/posts/`)
			h.int(p.ID)
			h.raw(`">`)
			h.text(p.Title)
			h.raw(`</a></td><td>`)
			h.text(p.Category.Name)
			h.raw(`</td><td>`)
			if p.PublishedAt != "" {
				h.raw(`published`)
			} else {
				h.raw(`draft`)
			}
			h.raw(`</td><td>`)
			h.int(p.Views)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

func statCard(h *htmlWriter, label string, value int64) {
	h.raw(`<div class="stat"><span class="stat-value">` + strconv.FormatInt(value, 10) + `</span><span class="stat-label">`)
	h.text(label)
	h.raw(`</span></div>`)
}
