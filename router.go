package inkwell

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// LoaderContext carries everything a loader or action may need: the inbound
// request (with forwarded cookies), the matched path parameters, and the app
// for store/token access. ActionData holds the result of an action so the
// re-rendered view can display validation feedback.
type LoaderContext struct {
	Request    *http.Request
	Params     map[string]string
	App        *App
	ActionData any

	echoCtx echo.Context
}

// SetCookie adds a Set-Cookie header to the pending response. Only actions
// (login/logout) use this.
func (lc *LoaderContext) SetCookie(cookie *http.Cookie) {
	if lc.echoCtx != nil {
		lc.echoCtx.SetCookie(cookie)
	}
}

type resultKind int

const (
	resultData resultKind = iota
	resultRedirect
	resultNotFound
	resultError
)

// LoaderResult is the tagged outcome of a loader or action. The render
// pipeline is the only consumer; outcomes never cross layers as panics or
// sentinel errors.
type LoaderResult struct {
	kind     resultKind
	data     any
	location string
	code     int
	err      error
}

// Data wraps loaded page data.
func Data(v any) LoaderResult {
	return LoaderResult{kind: resultData, data: v}
}

// Redirect short-circuits rendering with a 3xx to location.
func Redirect(location string, code int) LoaderResult {
	if code < 300 || code > 399 {
		code = http.StatusSeeOther
	}
	return LoaderResult{kind: resultRedirect, location: location, code: code}
}

// NotFound aborts the route: the pipeline emits the 404 document instead of
// rendering a view against missing data.
func NotFound() LoaderResult {
	return LoaderResult{kind: resultNotFound}
}

// Fail reports an unexpected loader failure; the pipeline logs it and emits
// the fixed 500 document.
func Fail(err error) LoaderResult {
	return LoaderResult{kind: resultError, err: err}
}

// Loader fetches exactly the data its route's view needs.
type Loader func(ctx context.Context, lc *LoaderContext) LoaderResult

// Action handles mutation submissions (non-GET verbs) on a route.
type Action func(ctx context.Context, lc *LoaderContext) LoaderResult

// ViewFunc renders a route's data; children is the rendered child outlet for
// layout routes, nil for leaves.
type ViewFunc func(data any, children templ.Component) templ.Component

// Route is one node of the declarative route tree. Paths are relative to the
// parent and may span several segments; an empty path is the index route.
type Route struct {
	Path     string
	Loader   Loader
	Action   Action
	View     ViewFunc
	Children []Route
}

// routeMatch pairs a matched route with its extracted parameters. The render
// pipeline fills data after running the loader chain.
type routeMatch struct {
	route  *Route
	params map[string]string
	data   any
}

// matchRoutes resolves reqPath against the tree, returning the chain of
// matched routes from root layout to leaf, or nil when nothing matches.
func matchRoutes(routes []Route, reqPath string) []routeMatch {
	segments := splitPath(reqPath)
	return matchLevel(routes, segments, map[string]string{})
}

func matchLevel(routes []Route, segments []string, params map[string]string) []routeMatch {
	for i := range routes {
		route := &routes[i]
		rest, matched, ok := consumeSegments(route.Path, segments, params)
		if !ok {
			continue
		}
		m := routeMatch{route: route, params: matched}
		if len(route.Children) > 0 {
			if child := matchLevel(route.Children, rest, matched); child != nil {
				return append([]routeMatch{m}, child...)
			}
			continue
		}
		if len(rest) == 0 {
			return []routeMatch{m}
		}
	}
	return nil
}

// consumeSegments matches a route path prefix against segments, returning the
// remainder and the accumulated params. ":name" captures one segment.
func consumeSegments(routePath string, segments []string, params map[string]string) ([]string, map[string]string, bool) {
	want := splitPath(routePath)
	if len(want) > len(segments) {
		return nil, nil, false
	}
	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	for i, part := range want {
		if strings.HasPrefix(part, ":") {
			merged[strings.TrimPrefix(part, ":")] = segments[i]
			continue
		}
		if part != segments[i] {
			return nil, nil, false
		}
	}
	return segments[len(want):], merged, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
