package rentlens

import "strings"

// RouteContext is constructed per navigation event from the raw path.
type RouteContext struct {
	Path         string
	IsAuthRoute  bool
	IsAdminRoute bool
	IsLoading    bool
}

// GuardRoutes names the well-known paths the guard redirects between.
type GuardRoutes struct {
	AuthPrefix  string
	AdminPrefix string
	Loading     string
	Login       string
	UserHome    string
	AdminHome   string
}

// DefaultGuardRoutes matches the app's route layout.
func DefaultGuardRoutes() GuardRoutes {
	return GuardRoutes{
		AuthPrefix:  "/auth",
		AdminPrefix: "/admin",
		Loading:     "/splash",
		Login:       "/auth/login",
		UserHome:    "/home",
		AdminHome:   "/admin/dashboard",
	}
}

// ParseRoute derives a RouteContext from the path by prefix match.
func (r GuardRoutes) ParseRoute(path string) RouteContext {
	if path == "" {
		path = "/"
	}
	return RouteContext{
		Path:         path,
		IsAuthRoute:  hasRoutePrefix(path, r.AuthPrefix),
		IsAdminRoute: hasRoutePrefix(path, r.AdminPrefix),
		IsLoading:    path == r.Loading,
	}
}

// Redirect is a guard decision: send the navigation to Target instead.
type Redirect struct {
	Target string
}

// Decide is a pure function of (state, route); it is re-evaluated on every
// route change and every published auth state, and calling it twice with the
// same inputs yields the same decision. Loading always wins over role checks
// so redirects never flap while data is in flight.
func (r GuardRoutes) Decide(state AuthState, route RouteContext) *Redirect {
	switch state.Phase() {
	case PhaseInitializing:
		if route.IsAuthRoute || route.IsLoading {
			return nil
		}
		return &Redirect{Target: r.Loading}

	case PhaseUnauthenticated:
		if route.IsAuthRoute {
			return nil
		}
		return &Redirect{Target: r.Login}

	case PhaseAuthenticated:
		user, ok := state.User()
		if !ok {
			return &Redirect{Target: r.Login}
		}

		if route.IsAuthRoute {
			if user.Role() == RoleAdmin {
				return &Redirect{Target: r.AdminHome}
			}
			return &Redirect{Target: r.UserHome}
		}

		// Admins are confined to the admin area; everyone else is kept out.
		if user.Role() == RoleAdmin && !route.IsAdminRoute {
			return &Redirect{Target: r.AdminHome}
		}
		if user.Role() != RoleAdmin && route.IsAdminRoute {
			return &Redirect{Target: r.UserHome}
		}

		return nil
	}

	return nil
}

func hasRoutePrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
