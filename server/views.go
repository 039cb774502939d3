package server

import (
	"fmt"
	"strings"
)

// View is the closed set of screens the server can render. The query
// parameter is resolved to a View once at the boundary; component logic
// never sees the raw string.
type View int

const (
	// ViewMain is the single/comparison playground.
	ViewMain View = iota
	// ViewAdmin is the settings screen.
	ViewAdmin
	// ViewChain is the three-stage pipeline screen.
	ViewChain
)

// DefaultView is rendered when no view parameter is present.
const DefaultView = ViewMain

// viewNames maps query parameter values to views, in display order.
var viewNames = []struct {
	name string
	view View
}{
	{"main", ViewMain},
	{"admin", ViewAdmin},
	{"chain", ViewChain},
}

// String returns the query parameter value for the view.
func (v View) String() string {
	for _, vn := range viewNames {
		if vn.view == v {
			return vn.name
		}
	}
	return "main"
}

// Title returns the page title for the view.
func (v View) Title() string {
	switch v {
	case ViewAdmin:
		return "Admin Controls — Prompt Engineering Workshop"
	case ViewChain:
		return "Prompt Chaining Workshop"
	default:
		return "Prompt Engineering Workshop"
	}
}

// ParseView resolves a query parameter value. An empty value selects the
// default view; anything outside the closed set is an error naming the
// valid choices.
func ParseView(raw string) (View, error) {
	if raw == "" {
		return DefaultView, nil
	}
	for _, vn := range viewNames {
		if vn.name == raw {
			return vn.view, nil
		}
	}

	valid := make([]string, len(viewNames))
	for i, vn := range viewNames {
		valid[i] = vn.name
	}
	return 0, fmt.Errorf("invalid view %q: valid views are %s", raw, strings.Join(valid, ", "))
}
