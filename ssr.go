package inkwell

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/views"
)

// handleSSR is the catch-all page handler. Every request walks the same
// pipeline: match the route tree, run the leaf action for mutating verbs,
// run the loader chain root to leaf, compose the view tree, then wrap the
// markup in the HTML document with the serialized loader data. The response
// carries a content ETag so unchanged pages revalidate to a 304.
func (a *App) handleSSR(c echo.Context) error {
	req := c.Request()

	matches := matchRoutes(a.routes, req.URL.Path)
	if matches == nil {
		return a.renderNotFound(c)
	}
	leaf := &matches[len(matches)-1]

	lc := &LoaderContext{
		Request: req,
		Params:  leaf.params,
		App:     a,
		echoCtx: c,
	}

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		action := leafAction(matches)
		if action == nil {
			return echo.NewHTTPError(http.StatusMethodNotAllowed)
		}
		res := action(req.Context(), lc)
		switch res.kind {
		case resultRedirect:
			return c.Redirect(res.code, res.location)
		case resultNotFound:
			return a.renderNotFound(c)
		case resultError:
			return a.renderServerError(c, res.err)
		}
		// Data outcome: fall through and re-render the page with the
		// action's feedback available to the loaders.
		lc.ActionData = res.data
	}

	for i := range matches {
		m := &matches[i]
		if m.route.Loader == nil {
			continue
		}
		lc.Params = m.params
		res := m.route.Loader(req.Context(), lc)
		switch res.kind {
		case resultRedirect:
			return c.Redirect(res.code, res.location)
		case resultNotFound:
			return a.renderNotFound(c)
		case resultError:
			return a.renderServerError(c, res.err)
		}
		m.data = res.data
	}
	lc.Params = leaf.params

	// Compose leaf-up so each layout receives its rendered child outlet.
	var page templ.Component
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].route.View == nil {
			continue
		}
		page = matches[i].route.View(matches[i].data, page)
	}
	if page == nil {
		return a.renderNotFound(c)
	}

	doc, err := a.renderDocument(c, page, loaderPayload(matches))
	if err != nil {
		return a.renderServerError(c, err)
	}

	sum := md5.Sum(doc)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	c.Response().Header().Set("Cache-Control", "no-cache, must-revalidate")
	c.Response().Header().Set("ETag", etag)
	if req.Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.HTMLBlob(http.StatusOK, doc)
}

// leafAction returns the deepest action in the matched chain, if any.
func leafAction(matches []routeMatch) Action {
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].route.Action != nil {
			return matches[i].route.Action
		}
	}
	return nil
}

// loaderPayload collects the loader data in root-to-leaf order for the
// client bootstrap. Routes without a loader contribute a null slot so the
// positions stay aligned with the route chain.
func loaderPayload(matches []routeMatch) []any {
	out := make([]any, len(matches))
	for i := range matches {
		out[i] = matches[i].data
	}
	return out
}

// renderDocument renders the composed page into the full HTML shell: asset
// links resolved for the current build mode and the loader data serialized
// for hydration. json.Marshal escapes angle brackets, so the payload is safe
// inside a script element.
func (a *App) renderDocument(c echo.Context, page templ.Component, payload []any) ([]byte, error) {
	refs, err := a.assets.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve assets: %w", err)
	}
	initial, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal page data: %w", err)
	}

	var body bytes.Buffer
	if err := page.Render(c.Request().Context(), &body); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	var doc bytes.Buffer
	err = views.Document(views.DocumentProps{
		Title:       a.cfg.Name,
		Description: a.cfg.Description,
		Lang:        "en",
		Styles:      refs.Styles,
		Scripts:     refs.Scripts,
		InitialData: string(initial),
	}, templ.Raw(body.String())).Render(c.Request().Context(), &doc)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return doc.Bytes(), nil
}

func (a *App) renderNotFound(c echo.Context) error {
	return a.renderStandalone(c, http.StatusNotFound, views.NotFoundPage())
}

// renderServerError logs the cause and emits the fixed error document. The
// response never carries failure detail.
func (a *App) renderServerError(c echo.Context, err error) error {
	c.Logger().Errorf("page render failed: %v", err)
	return a.renderStandalone(c, http.StatusInternalServerError, views.ServerErrorPage())
}

// renderStandalone wraps an error page in the document shell without loader
// data and writes it with the given status. Asset resolution failures fall
// back to bare markup rather than masking the original status.
func (a *App) renderStandalone(c echo.Context, code int, page templ.Component) error {
	refs, err := a.assets.Resolve()
	if err != nil {
		refs = AssetRefs{}
	}
	var doc bytes.Buffer
	err = views.Document(views.DocumentProps{
		Title:       a.cfg.Name,
		Description: a.cfg.Description,
		Lang:        "en",
		Styles:      refs.Styles,
		Scripts:     refs.Scripts,
	}, page).Render(c.Request().Context(), &doc)
	if err != nil {
		return c.HTML(code, "<!doctype html><title>error</title>")
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return c.HTMLBlob(code, doc.Bytes())
}
