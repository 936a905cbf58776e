package inkwell

import (
	"context"
	"errors"
	"strconv"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/inkwell/views"
)

// pageRoutes is the declarative route tree behind the SSR catch-all. The
// root layout owns the sidebar data; the admin subtree is gated by a guard
// loader that redirects anonymous visitors to the login route.
func (a *App) pageRoutes() []Route {
	return []Route{
		{
			Path:   "",
			Loader: a.siteLoader,
			View:   a.siteLayoutView,
			Children: []Route{
				{Path: "", Loader: a.homeLoader, View: homeView},
				{Path: "posts/:id", Loader: a.postLoader, View: a.postView},
				{Path: "categories/:slug", Loader: a.categoryLoader, View: categoryView},
				{Path: "tags/:slug", Loader: a.tagLoader, View: tagView},
				{Path: "archive/:year", Loader: a.archiveLoader, View: archiveView},
				{Path: "admin/login", Loader: a.loginLoader, Action: a.loginAction, View: loginView},
				{
					Path:   "admin",
					Loader: a.adminGuard,
					View:   adminLayoutView,
					Children: []Route{
						{Path: "", Loader: a.dashboardLoader, View: dashboardView},
					},
				},
			},
		},
	}
}

// siteData feeds the shared layout: navigation categories, the tag cloud,
// and the archive list. The three fetches are independent and run in
// parallel to keep server-render latency at the slowest of the three.
type siteData struct {
	Categories []Category    `json:"categories"`
	Tags       []Tag         `json:"tags"`
	Archive    []ArchiveStat `json:"archive"`
}

func (a *App) siteLoader(ctx context.Context, _ *LoaderContext) LoaderResult {
	var d siteData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Categories, err = a.store.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Tags, err = a.store.ListTags(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Archive, err = a.store.ArchiveStatistics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Fail(err)
	}
	return Data(d)
}

type homeData struct {
	Posts []Post `json:"posts"`
	Page  int    `json:"page"`
}

func (a *App) homeLoader(ctx context.Context, lc *LoaderContext) LoaderResult {
	page := 1
	if p, err := strconv.Atoi(lc.Request.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	posts, err := a.store.ListPosts(ctx, ListQuery{Page: page, Limit: 10}, true)
	if err != nil {
		return Fail(err)
	}
	return Data(homeData{Posts: posts, Page: page})
}

type postPageData struct {
	Post    Post   `json:"post"`
	Related []Post `json:"related"`
}

func (a *App) postLoader(ctx context.Context, lc *LoaderContext) LoaderResult {
	id, err := strconv.ParseInt(lc.Params["id"], 10, 64)
	if err != nil {
		return NotFound()
	}

	var post Post
	var recent []Post
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		post, err = a.store.GetPostByID(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		recent, err = a.store.ListPosts(gctx, ListQuery{Page: 1, Limit: 50}, true)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFound()
		}
		return Fail(err)
	}
	if !post.Published() {
		return NotFound()
	}
	return Data(postPageData{Post: post, Related: RelatedPosts(post, recent)})
}

type categoryPageData struct {
	Category Category `json:"category"`
	Posts    []Post   `json:"posts"`
}

func (a *App) categoryLoader(ctx context.Context, lc *LoaderContext) LoaderResult {
	// The category must resolve before its posts can be fetched; these two
	// steps are dependent and run in order.
	category, err := a.store.GetCategoryBySlug(ctx, lc.Params["slug"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFound()
		}
		return Fail(err)
	}
	posts, err := a.store.ListPostsByCategory(ctx, category.ID)
	if err != nil {
		return Fail(err)
	}
	return Data(categoryPageData{Category: category, Posts: posts})
}

type tagPageData struct {
	Tag   Tag    `json:"tag"`
	Posts []Post `json:"posts"`
}

func (a *App) tagLoader(ctx context.Context, lc *LoaderContext) LoaderResult {
	tag, err := a.store.GetTagBySlug(ctx, lc.Params["slug"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFound()
		}
		return Fail(err)
	}
	posts, err := a.store.ListPostsByTag(ctx, tag.ID)
	if err != nil {
		return Fail(err)
	}
	return Data(tagPageData{Tag: tag, Posts: posts})
}

type archivePageData struct {
	Year  int    `json:"year"`
	Posts []Post `json:"posts"`
}

func (a *App) archiveLoader(ctx context.Context, lc *LoaderContext) LoaderResult {
	year, err := strconv.Atoi(lc.Params["year"])
	if err != nil {
		return NotFound()
	}
	posts, err := a.store.ListPostsByYear(ctx, year)
	if err != nil {
		return Fail(err)
	}
	return Data(archivePageData{Year: year, Posts: posts})
}

// adminData is the guard loader's payload: the verified principal.
type adminData struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// adminGuard resolves the principal from the forwarded cookie (or bearer
// header) and redirects to the login route when there is none. It runs on
// the server render and again on client navigation with the same outcome.
func (a *App) adminGuard(_ context.Context, lc *LoaderContext) LoaderResult {
	raw := extractTokenFromRequest(lc.Request)
	if raw == "" {
		return Redirect("/admin/login", 303)
	}
	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return Redirect("/admin/login", 303)
	}
	return Data(adminData{Username: claims.Username, Role: claims.Role})
}

type dashboardData struct {
	Stats      DashboardStats `json:"stats"`
	Categories []Category     `json:"categories"`
	Drafts     []Post         `json:"drafts"`
}

func (a *App) dashboardLoader(ctx context.Context, lc *LoaderContext) LoaderResult {
	claims, err := a.tokens.Verify(extractTokenFromRequest(lc.Request))
	if err != nil {
		return Redirect("/admin/login", 303)
	}

	var d dashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Stats, err = a.store.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Categories, err = a.store.ManageableCategories(gctx, claims)
		return err
	})
	g.Go(func() (err error) {
		d.Drafts, err = a.store.ListPosts(gctx, ListQuery{Page: 1, Limit: 20}, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return Fail(err)
	}
	return Data(d)
}

type loginPageData struct {
	Error string `json:"error,omitempty"`
}

func (a *App) loginLoader(_ context.Context, lc *LoaderContext) LoaderResult {
	if d, ok := lc.ActionData.(loginPageData); ok {
		return Data(d)
	}
	return Data(loginPageData{})
}

// loginAction handles the login form submission. Success sets the auth
// cookie and redirects into the admin subtree; failure re-renders the form
// with the same generic message for every failure cause.
func (a *App) loginAction(ctx context.Context, lc *LoaderContext) LoaderResult {
	if err := lc.Request.ParseForm(); err != nil {
		return Data(loginPageData{Error: ErrInvalidCredentials.Error()})
	}
	username := lc.Request.PostFormValue("username")
	password := lc.Request.PostFormValue("password")
	if username == "" || password == "" {
		return Data(loginPageData{Error: "username and password are required"})
	}

	token, _, err := a.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return Data(loginPageData{Error: ErrInvalidCredentials.Error()})
		}
		return Fail(err)
	}
	if lc.echoCtx != nil {
		a.setAuthCookie(lc.echoCtx, token)
	}
	return Redirect("/admin", 303)
}

// View adapters: convert domain entities into the shapes the views package
// renders. The views package stays import-cycle free by owning its own types.

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.cfg.Name,
		BaseURL:     a.cfg.BaseURL,
		Description: a.cfg.Description,
		Author:      a.cfg.Author,
	}
}

func (a *App) siteLayoutView(data any, children templ.Component) templ.Component {
	d, _ := data.(siteData)
	return views.SiteLayout(a.site(), viewCategories(d.Categories), viewTags(d.Tags), viewArchive(d.Archive), children)
}

func homeView(data any, _ templ.Component) templ.Component {
	d, _ := data.(homeData)
	return views.Home(viewPosts(d.Posts), d.Page)
}

func (a *App) postView(data any, _ templ.Component) templ.Component {
	d, _ := data.(postPageData)
	return views.PostPage(a.site(), viewPost(d.Post), viewPosts(d.Related))
}

func categoryView(data any, _ templ.Component) templ.Component {
	d, _ := data.(categoryPageData)
	return views.CategoryPage(viewCategory(d.Category), viewPosts(d.Posts))
}

func tagView(data any, _ templ.Component) templ.Component {
	d, _ := data.(tagPageData)
	return views.TagPage(views.Tag{ID: d.Tag.ID, Name: d.Tag.Name, Slug: d.Tag.Slug}, viewPosts(d.Posts))
}

func archiveView(data any, _ templ.Component) templ.Component {
	d, _ := data.(archivePageData)
	return views.ArchivePage(d.Year, viewPosts(d.Posts))
}

func loginView(data any, _ templ.Component) templ.Component {
	d, _ := data.(loginPageData)
	return views.AdminLogin(d.Error)
}

func adminLayoutView(data any, children templ.Component) templ.Component {
	d, _ := data.(adminData)
	return views.AdminLayout(d.Username, string(d.Role), children)
}

func dashboardView(data any, _ templ.Component) templ.Component {
	d, _ := data.(dashboardData)
	return views.AdminDashboard(views.DashboardStats{
		Posts:      d.Stats.Posts,
		Categories: d.Stats.Categories,
		Tags:       d.Stats.Tags,
		Users:      d.Stats.Users,
		TotalViews: d.Stats.TotalViews,
	}, viewCategories(d.Categories), viewPosts(d.Drafts))
}

func viewPost(p Post) views.Post {
	v := views.Post{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Summary:       p.Summary,
		CoverImageURL: p.CoverImageURL,
		Author:        p.Author.Username,
		Category:      viewCategory(p.Category),
		Tags:          viewTags(p.Tags),
		Views:         p.Views,
		ReadTime:      p.ReadTime,
	}
	if p.PublishedAt != nil {
		v.PublishedAt = p.PublishedAt.Format("2006-01-02")
	}
	return v
}

func viewPosts(posts []Post) []views.Post {
	out := make([]views.Post, len(posts))
	for i, p := range posts {
		out[i] = viewPost(p)
	}
	return out
}

func viewCategory(c Category) views.Category {
	return views.Category{ID: c.ID, Name: c.Name, Slug: c.Slug, PostCount: c.PostCount}
}

func viewCategories(cs []Category) []views.Category {
	out := make([]views.Category, len(cs))
	for i, c := range cs {
		out[i] = viewCategory(c)
	}
	return out
}

func viewTags(ts []Tag) []views.Tag {
	out := make([]views.Tag, len(ts))
	for i, t := range ts {
		out[i] = views.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	return out
}

func viewArchive(stats []ArchiveStat) []views.ArchiveStat {
	out := make([]views.ArchiveStat, len(stats))
	for i, s := range stats {
		out[i] = views.ArchiveStat{Year: s.Year, Count: s.Count}
	}
	return out
}
