package inkwell

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// handleFeed serves the RSS feed of the most recent published posts.
func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.store.ListPosts(c.Request().Context(), ListQuery{Page: 1, Limit: 20}, true)
	if err != nil {
		return err
	}

	base := a.cfg.BaseURL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "posts", strconv.FormatInt(p.ID, 10))
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Summary,
			Category:    p.Category.Name,
			GUID:        postURL,
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.cfg.Name,
			Link:        base,
			Description: a.cfg.Description,
			Items:       items,
		},
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// handleSitemap serves the sitemap: the front page, every category, every
// archive year, and every published post.
func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	base := a.cfg.BaseURL

	urls := []sitemapURL{{Loc: BuildURL(base)}}

	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, cat := range categories {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "categories", cat.Slug)})
	}

	archive, err := a.store.ArchiveStatistics(ctx)
	if err != nil {
		return err
	}
	for _, y := range archive {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "archive", strconv.Itoa(y.Year))})
	}

	posts, err := a.store.ListPosts(ctx, ListQuery{}, true)
	if err != nil {
		return err
	}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(base, "posts", strconv.FormatInt(p.ID, 10))}
		if p.PublishedAt != nil {
			u.LastMod = p.PublishedAt.Format("2006-01-02")
		}
		urls = append(urls, u)
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api/\n\nSitemap: "+BuildURL(a.cfg.BaseURL, "sitemap.xml")+"\n")
}
