package auth

// Phase is the login-state discriminator.
type Phase int

const (
	// PhaseAnonymous means no pending login and no session.
	PhaseAnonymous Phase = iota
	// PhasePending means a login was started and the callback has not
	// resolved it yet.
	PhasePending
	// PhaseAuthenticated means a valid session exists.
	PhaseAuthenticated
)

// LoginState models the per-browser login lifecycle as a tagged union
// instead of two independent cookies that may disagree. Exactly one of
// Pending and Session is set, depending on Phase.
type LoginState struct {
	Phase   Phase
	Pending *PendingLogin
	Session *SessionPayload
}

// Anonymous is the zero state: no pending login, no session.
func Anonymous() LoginState {
	return LoginState{Phase: PhaseAnonymous}
}

// Begin transitions to the pending phase. Starting a new login while a
// session exists or another login is pending replaces the old state;
// only the latest pending login can complete.
func (s LoginState) Begin(pending PendingLogin) LoginState {
	return LoginState{Phase: PhasePending, Pending: &pending}
}

// CanComplete reports whether a callback for the given provider and
// state resolves this pending login. False when no login is pending or
// when either the state token or the provider disagrees with what the
// start handler recorded.
func (s LoginState) CanComplete(provider, state string) bool {
	return s.Phase == PhasePending && s.Pending != nil &&
		s.Pending.Provider == provider && s.Pending.State == state
}

// Complete resolves a pending login into an authenticated session. A
// completion without a matching pending login yields anonymous, never a
// session.
func (s LoginState) Complete(provider, state string, session SessionPayload) LoginState {
	if !s.CanComplete(provider, state) {
		return Anonymous()
	}
	return LoginState{Phase: PhaseAuthenticated, Session: &session}
}

// Fail resolves a pending login as unsuccessful. Failing preserves an
// existing authenticated session untouched; a failed re-login does not
// log the user out.
func (s LoginState) Fail() LoginState {
	if s.Phase == PhaseAuthenticated {
		return s
	}
	return Anonymous()
}

// Logout drops any session or pending login.
func (s LoginState) Logout() LoginState {
	return Anonymous()
}
