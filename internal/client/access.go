package client

// Session is what the access resolver knows about the current user. Loading
// means the session state has not been determined yet (e.g. a token refresh
// is in flight).
type Session struct {
	Loading       bool
	Authenticated bool
	Role          string
}

// AccessKind is the outcome of an access resolution.
type AccessKind int

const (
	// Allow renders the protected view.
	Allow AccessKind = iota
	// Redirect sends the user to Decision.Target.
	Redirect
	// ShowLoading renders a loading affordance until the session resolves.
	ShowLoading
)

// Decision is the result of ResolveAccess.
type Decision struct {
	Kind   AccessKind
	Target string
}

// LoginPath is where unauthenticated users are redirected.
const LoginPath = "/login"

// HomePath is where authenticated users lacking the required role are
// redirected.
const HomePath = "/"

// ResolveAccess decides whether a session may see a view guarded by
// requiredRole (empty means any authenticated user). It is a pure function
// of the session, so guards are testable without any rendering machinery.
func ResolveAccess(s Session, requiredRole string) Decision {
	if s.Loading {
		return Decision{Kind: ShowLoading}
	}
	if !s.Authenticated {
		return Decision{Kind: Redirect, Target: LoginPath}
	}
	if requiredRole != "" && s.Role != requiredRole {
		return Decision{Kind: Redirect, Target: HomePath}
	}
	return Decision{Kind: Allow}
}
