package domain

import (
	"fmt"
	"slices"
)

const DefaultFallbackPath = "/"

// RoleRestriction is either unrestricted (the zero value) or restricted to a
// non-empty set of roles. The set can only be built through RestrictedTo.
type RoleRestriction struct {
	roles []Role
}

func Unrestricted() RoleRestriction { return RoleRestriction{} }

func RestrictedTo(first Role, rest ...Role) RoleRestriction {
	roles := []Role{first}
	for _, r := range rest {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return RoleRestriction{roles: roles}
}

func (r RoleRestriction) IsRestricted() bool { return len(r.roles) > 0 }

func (r RoleRestriction) Roles() []Role { return slices.Clone(r.roles) }

func (r RoleRestriction) Allows(role Role) bool {
	return !r.IsRestricted() || slices.Contains(r.roles, role)
}

type RouteDescriptor struct {
	Path        string
	Restriction RoleRestriction
	Fallback    string
}

func (d RouteDescriptor) fallback() string {
	if d.Fallback == "" {
		return DefaultFallbackPath
	}
	return d.Fallback
}

type SessionState int

const (
	SessionAbsent SessionState = iota
	SessionPending
	SessionResolved
)

// Session is the principal as seen by the navigation layer. Principal is
// only meaningful when State is SessionResolved.
type Session struct {
	State     SessionState
	Principal Principal
}

func PendingSession() Session { return Session{State: SessionPending} }

func ResolvedSession(p Principal) Session {
	return Session{State: SessionResolved, Principal: p}
}

type DecisionKind int

const (
	DecisionRender DecisionKind = iota
	DecisionRedirect
	DecisionWait
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRender:
		return "render"
	case DecisionRedirect:
		return "redirect"
	case DecisionWait:
		return "wait"
	default:
		return fmt.Sprintf("decision(%d)", int(k))
	}
}

// Decision is the outcome of a navigation. Location is set only for
// redirects; redirects always replace the denied entry in history.
type Decision struct {
	Kind     DecisionKind
	Location string
}

func (d Decision) Replace() bool { return d.Kind == DecisionRedirect }

// Decide is the access check for a single navigation.
func Decide(route RouteDescriptor, session Session) Decision {
	if !route.Restriction.IsRestricted() {
		return Decision{Kind: DecisionRender}
	}
	switch session.State {
	case SessionPending:
		return Decision{Kind: DecisionWait}
	case SessionResolved:
		if route.Restriction.Allows(session.Principal.Role) {
			return Decision{Kind: DecisionRender}
		}
	}
	return Decision{Kind: DecisionRedirect, Location: route.fallback()}
}

// RouteTable holds exactly one descriptor per navigable path. The catch-all
// and every fallback target are unrestricted, so redirects never chain.
type RouteTable struct {
	order       []string
	descriptors map[string]RouteDescriptor
	catchAll    string
}

func NewRouteTable(catchAll string, routes ...RouteDescriptor) (*RouteTable, error) {
	if catchAll == "" {
		catchAll = DefaultFallbackPath
	}
	t := &RouteTable{descriptors: make(map[string]RouteDescriptor, len(routes)), catchAll: catchAll}
	for _, route := range routes {
		if route.Path == "" {
			return nil, fmt.Errorf("route with empty path: %w", ErrInvalidInput)
		}
		if _, dup := t.descriptors[route.Path]; dup {
			return nil, fmt.Errorf("route %q declared twice: %w", route.Path, ErrConflict)
		}
		t.descriptors[route.Path] = route
		t.order = append(t.order, route.Path)
	}
	target, ok := t.descriptors[catchAll]
	if !ok {
		return nil, fmt.Errorf("catch-all path %q has no descriptor: %w", catchAll, ErrInvalidInput)
	}
	if target.Restriction.IsRestricted() {
		return nil, fmt.Errorf("catch-all path %q must be unrestricted: %w", catchAll, ErrInvalidInput)
	}
	// A redirect must land on a route every session can render.
	for _, path := range t.order {
		fallback := t.descriptors[path].fallback()
		if d, known := t.descriptors[fallback]; known && d.Restriction.IsRestricted() {
			return nil, fmt.Errorf("route %q falls back to restricted route %q: %w", path, fallback, ErrInvalidInput)
		}
	}
	return t, nil
}

func (t *RouteTable) Lookup(path string) (RouteDescriptor, bool) {
	d, ok := t.descriptors[path]
	return d, ok
}

func (t *RouteTable) Routes() []RouteDescriptor {
	out := make([]RouteDescriptor, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.descriptors[p])
	}
	return out
}

// DecidePath resolves unknown paths to a replacing redirect to the catch-all.
func (t *RouteTable) DecidePath(path string, session Session) Decision {
	route, ok := t.Lookup(path)
	if !ok {
		return Decision{Kind: DecisionRedirect, Location: t.catchAll}
	}
	return Decide(route, session)
}

// DefaultRoutes is the back-office navigation map.
func DefaultRoutes(fallback string) []RouteDescriptor {
	all := RestrictedTo(RoleSuperAdmin, RoleAdmin, RoleCollaborator)
	managers := RestrictedTo(RoleSuperAdmin, RoleAdmin)
	owner := RestrictedTo(RoleSuperAdmin)
	return []RouteDescriptor{
		{Path: "/", Restriction: Unrestricted(), Fallback: fallback},
		{Path: "/orders", Restriction: all, Fallback: fallback},
		{Path: "/transactions", Restriction: managers, Fallback: fallback},
		{Path: "/inventory", Restriction: all, Fallback: fallback},
		{Path: "/storage", Restriction: managers, Fallback: fallback},
		{Path: "/customers", Restriction: all, Fallback: fallback},
		{Path: "/users", Restriction: owner, Fallback: fallback},
		{Path: "/settings", Restriction: owner, Fallback: fallback},
	}
}
