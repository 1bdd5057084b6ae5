package api

// Signals receives session-level outcomes of API calls. It replaces global
// event dispatch: the receiver is handed to the client at construction.
type Signals interface {
	// OnLogout is called once per failed refresh, after the session has
	// been cleared.
	OnLogout()
	// OnUnauthorized is called for every 403 response.
	OnUnauthorized(err *Error)
}

// SignalFuncs adapts plain functions to Signals. Nil fields are ignored.
type SignalFuncs struct {
	Logout       func()
	Unauthorized func(err *Error)
}

// OnLogout implements Signals.
func (f SignalFuncs) OnLogout() {
	if f.Logout != nil {
		f.Logout()
	}
}

// OnUnauthorized implements Signals.
func (f SignalFuncs) OnUnauthorized(err *Error) {
	if f.Unauthorized != nil {
		f.Unauthorized(err)
	}
}

type nopSignals struct{}

func (nopSignals) OnLogout()             {}
func (nopSignals) OnUnauthorized(*Error) {}
