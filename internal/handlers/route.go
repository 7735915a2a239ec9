package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Default route pattern {controller=Notes}/{action=Index}/{id?}.
const (
	DefaultController = "Notes"
	DefaultAction     = "Index"
)

// RouteValues are the segments matched by the default route.
type RouteValues struct {
	Controller string
	Action     string
	ID         string
}

// MatchDefaultRoute applies the default route pattern to path. Missing segments
// take their defaults; more than three segments do not match.
func MatchDefaultRoute(path string) (RouteValues, bool) {
	var segs []string
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) > 3 {
		return RouteValues{}, false
	}
	v := RouteValues{Controller: DefaultController, Action: DefaultAction}
	if len(segs) > 0 {
		v.Controller = segs[0]
	}
	if len(segs) > 1 {
		v.Action = segs[1]
	}
	if len(segs) > 2 {
		v.ID = segs[2]
	}
	return v, true
}

type action struct {
	needsID bool
	handle  func(c *gin.Context, id string)
}

// actionKey is lower-cased "controller/action method".
type actionKey struct {
	controller, action, method string
}

// Conventional resolves requests no explicit route matched against the default
// route. Actions without an id ignore one if given. guard runs before any matched action, in place of the authorization
// middleware of the explicit routes.
func Conventional(notes *NoteHandler, guard gin.HandlerFunc) gin.HandlerFunc {
	table := map[actionKey]action{
		{"notes", "index", http.MethodGet}:   {handle: notes.index},
		{"notes", "details", http.MethodGet}: {needsID: true, handle: notes.details},
		{"notes", "create", http.MethodGet}:  {handle: notes.newForm},
		{"notes", "create", http.MethodPost}: {handle: notes.create},
		{"notes", "edit", http.MethodGet}:    {needsID: true, handle: notes.editForm},
		{"notes", "edit", http.MethodPost}:   {needsID: true, handle: notes.update},
		{"notes", "delete", http.MethodGet}:  {needsID: true, handle: notes.confirmDelete},
		{"notes", "delete", http.MethodPost}: {needsID: true, handle: notes.delete},
	}

	return func(c *gin.Context) {
		v, ok := MatchDefaultRoute(c.Request.URL.Path)
		if !ok {
			renderError(c, http.StatusNotFound, "not found")
			return
		}
		method := c.Request.Method
		if method == http.MethodHead {
			method = http.MethodGet
		}
		a, ok := table[actionKey{strings.ToLower(v.Controller), strings.ToLower(v.Action), method}]
		if !ok || (a.needsID && v.ID == "") {
			renderError(c, http.StatusNotFound, "not found")
			return
		}
		if guard != nil {
			guard(c)
			if c.IsAborted() {
				return
			}
		}
		a.handle(c, v.ID)
	}
}
