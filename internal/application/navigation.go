package application

import "bakery-backoffice/internal/domain"

type NavigationService struct {
	routes *domain.RouteTable
}

func NewNavigationService(routes *domain.RouteTable) *NavigationService {
	return &NavigationService{routes: routes}
}

func (s *NavigationService) Decide(path string, session domain.Session) domain.Decision {
	return s.routes.DecidePath(path, session)
}

type MenuEntry struct {
	Path  string        `json:"path"`
	Roles []domain.Role `json:"roles,omitempty"`
}

// Menu lists the routes that render for the session, in declaration order.
func (s *NavigationService) Menu(session domain.Session) []MenuEntry {
	var out []MenuEntry
	for _, route := range s.routes.Routes() {
		if domain.Decide(route, session).Kind == domain.DecisionRender {
			out = append(out, MenuEntry{Path: route.Path, Roles: route.Restriction.Roles()})
		}
	}
	return out
}
