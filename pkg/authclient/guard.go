package authclient

// Decision is the outcome of the route guard for one navigation.
type Decision int

const (
	// DecisionLoading: render a loading indicator, the session check has
	// not resolved yet.
	DecisionLoading Decision = iota
	// DecisionRedirectToLogin: send the caller to the login entry point;
	// GuardResult.ReturnTo preserves the originally requested location.
	DecisionRedirectToLogin
	// DecisionDenied: authenticated but the role is not in the page's
	// allowed set; render the access-denied view.
	DecisionDenied
	// DecisionAllow: render the protected content.
	DecisionAllow
)

// GuardResult pairs the decision with the location to return to after a
// successful login.
type GuardResult struct {
	Decision Decision
	ReturnTo string
}

// Guard evaluates the route-protection state machine for a page that admits
// allowedRoles. An empty allowedRoles admits any authenticated caller.
func Guard(session Session, requestedLocation string, allowedRoles ...string) GuardResult {
	switch session.State {
	case StateLoading:
		return GuardResult{Decision: DecisionLoading}
	case StateUnauthenticated:
		return GuardResult{Decision: DecisionRedirectToLogin, ReturnTo: requestedLocation}
	}

	if len(allowedRoles) == 0 {
		return GuardResult{Decision: DecisionAllow}
	}
	role := ""
	if session.User != nil {
		role = session.User.Role
	}
	for _, allowed := range allowedRoles {
		if role == allowed {
			return GuardResult{Decision: DecisionAllow}
		}
	}
	return GuardResult{Decision: DecisionDenied}
}
