// Package login implements the login overlay: it collects credentials, authenticates
// against the remote endpoint, persists the session token and navigates to the
// dashboard.
package login

import (
	"context"
	"errors"
	"sync"

	"github.com/etnz/navdash"
	"go.uber.org/zap"
)

// Messages displayed by the overlay.
const (
	MsgMissingFields = "Please fill in all fields"
	MsgLoginFailed   = "Login failed"
	MsgNetworkError  = "Network error. Please try again."
)

// ErrInFlight is returned by Submit while a previous submission is still pending.
var ErrInFlight = errors.New("a login is already in progress")

// State is the state of the login flow.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, creds navdash.Credentials) (string, error)
}

// TokenStore persists the session token.
type TokenStore interface {
	Set(key, value string) error
}

// Navigator moves the client to another route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Options configure a Flow.
type Options struct {
	TokenKey       string // store key, "token" by default
	DashboardRoute string // route navigated to on success, "/dashboard" by default
	OnClose        func() // asks the parent to close the overlay
	Logger         *zap.Logger
}

// Flow is the login form state machine.
//
// Idle -> Submitting -> Succeeded|Failed; any edit goes back to Idle.
type Flow struct {
	auth  Authenticator
	store TokenStore
	nav   Navigator
	opts  Options

	mu           sync.Mutex
	creds        navdash.Credentials
	showPassword bool
	state        State
	message      string
}

// New returns a login flow in the Idle state.
func New(auth Authenticator, store TokenStore, nav Navigator, opts Options) *Flow {
	if opts.TokenKey == "" {
		opts.TokenKey = "token"
	}
	if opts.DashboardRoute == "" {
		opts.DashboardRoute = "/dashboard"
	}
	if opts.OnClose == nil {
		opts.OnClose = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Flow{auth: auth, store: store, nav: nav, opts: opts}
}

// SetUsername edits the username field.
func (f *Flow) SetUsername(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds.Username = v
	f.edited()
}

// SetPassword edits the password field.
func (f *Flow) SetPassword(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds.Password = v
	f.edited()
}

// edited returns a terminal state to Idle. Edits during a submission do not change it.
func (f *Flow) edited() {
	if f.state == Submitting {
		return
	}
	f.state = Idle
	f.message = ""
}

// TogglePasswordVisibility shows or hides the password in plain text.
func (f *Flow) TogglePasswordVisibility() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showPassword = !f.showPassword
}

// Close asks the parent to close the overlay.
func (f *Flow) Close() { f.opts.OnClose() }

// Submit authenticates with the current credentials.
//
// Missing fields fail locally without any network call. On success, the token is
// stored, the client navigates to the dashboard route and the overlay is closed.
// The returned error is the cause of a failure; the message to display is available
// from View.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrInFlight
	}
	f.message = ""
	creds := f.creds
	if creds.Username == "" || creds.Password == "" {
		f.state = Failed
		f.message = MsgMissingFields
		f.mu.Unlock()
		field := "username"
		if creds.Username != "" {
			field = "password"
		}
		return &navdash.ValidationError{Field: field, Message: "must not be empty"}
	}
	f.state = Submitting
	f.mu.Unlock()

	token, err := f.auth.Login(ctx, creds)
	if err == nil {
		err = f.store.Set(f.opts.TokenKey, token)
	}

	f.mu.Lock()
	if err != nil {
		f.state = Failed
		f.message = failureMessage(err)
		f.mu.Unlock()
		f.opts.Logger.Info("login failed", zap.String("username", creds.Username), zap.Error(err))
		return err
	}
	f.state = Succeeded
	f.mu.Unlock()

	f.opts.Logger.Info("logged in", zap.String("username", creds.Username))
	f.nav.Navigate(f.opts.DashboardRoute)
	f.opts.OnClose()
	return nil
}

// failureMessage returns the message displayed for a failed submission.
func failureMessage(err error) string {
	var rejected *navdash.RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return rejected.Message
		}
		return MsgLoginFailed
	}
	var transport *navdash.TransportError
	if errors.As(err, &transport) {
		return MsgNetworkError
	}
	return MsgLoginFailed
}

// View is a snapshot of the overlay, for rendering.
type View struct {
	Username     string
	Password     string // always set: the renderer masks it unless ShowPassword
	ShowPassword bool
	State        State
	Message      string // error displayed above the form, if any
}

// Busy reports whether the submit action is disabled.
func (v View) Busy() bool { return v.State == Submitting }

// View returns the current state of the overlay.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		Username:     f.creds.Username,
		Password:     f.creds.Password,
		ShowPassword: f.showPassword,
		State:        f.state,
		Message:      f.message,
	}
}
