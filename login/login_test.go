package login

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/etnz/navdash"
	"github.com/etnz/navdash/client"
	"github.com/etnz/navdash/internal/apitest"
	"github.com/etnz/navdash/store"
)

// fakeAuth records calls and answers with token or err.
type fakeAuth struct {
	calls int
	got   navdash.Credentials
	token string
	err   error
	// block, when set, is waited on before answering.
	block chan struct{}
}

func (a *fakeAuth) Login(ctx context.Context, creds navdash.Credentials) (string, error) {
	a.calls++
	a.got = creds
	if a.block != nil {
		<-a.block
	}
	return a.token, a.err
}

// recorder records navigation and close requests.
type recorder struct {
	routes []string
	closed int
}

func (r *recorder) Navigate(route string) { r.routes = append(r.routes, route) }

func newFlow(auth Authenticator, s TokenStore) (*Flow, *recorder) {
	rec := &recorder{}
	f := New(auth, s, rec, Options{OnClose: func() { rec.closed++ }})
	return f, rec
}

func TestSubmitMissingFields(t *testing.T) {
	tests := []struct {
		name, username, password, field string
	}{
		{"both empty", "", "", "username"},
		{"no username", "", "secret", "username"},
		{"no password", "ikkeh", "", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{token: "abc"}
			var s store.Memory
			f, rec := newFlow(auth, &s)
			f.SetUsername(tt.username)
			f.SetPassword(tt.password)

			err := f.Submit(context.Background())
			var verr *navdash.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("Submit() error = %v, want a ValidationError on %s", err, tt.field)
			}
			if auth.calls != 0 {
				t.Errorf("authenticator called %d times, want 0", auth.calls)
			}
			v := f.View()
			if v.Message != MsgMissingFields || v.State != Failed {
				t.Errorf("View() = %+v, want the missing fields message", v)
			}
			if s.Len() != 0 || len(rec.routes) != 0 || rec.closed != 0 {
				t.Errorf("side effects on validation failure: store=%d routes=%v closed=%d", s.Len(), rec.routes, rec.closed)
			}
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	auth := &fakeAuth{token: "abc"}
	var s store.Memory
	f, rec := newFlow(auth, &s)
	f.SetUsername("ikkeh")
	f.SetPassword("secret")

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if auth.got != (navdash.Credentials{Username: "ikkeh", Password: "secret"}) {
		t.Errorf("authenticator got %+v", auth.got)
	}
	if got, _ := s.Get(store.TokenKey); got != "abc" {
		t.Errorf("stored token = %q, want %q", got, "abc")
	}
	if len(rec.routes) != 1 || rec.routes[0] != "/dashboard" {
		t.Errorf("navigation = %v, want [/dashboard]", rec.routes)
	}
	if rec.closed != 1 {
		t.Errorf("close requested %d times, want 1", rec.closed)
	}
	if v := f.View(); v.State != Succeeded || v.Message != "" || v.Busy() {
		t.Errorf("View() = %+v, want succeeded without message", v)
	}
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server message",
			err:  &navdash.RejectedError{Op: "login", Status: 401, Message: "bad credentials"},
			want: "bad credentials",
		},
		{
			name: "no server message",
			err:  &navdash.RejectedError{Op: "login", Status: 500},
			want: MsgLoginFailed,
		},
		{
			name: "transport",
			err:  &navdash.TransportError{Op: "login", Err: errors.New("connection refused")},
			want: MsgNetworkError,
		},
		{
			name: "no token",
			err:  client.ErrNoToken,
			want: MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{err: tt.err}
			var s store.Memory
			f, rec := newFlow(auth, &s)
			f.SetUsername("ikkeh")
			f.SetPassword("secret")

			if err := f.Submit(context.Background()); !errors.Is(err, tt.err) {
				t.Errorf("Submit() error = %v, want %v", err, tt.err)
			}
			v := f.View()
			if v.Message != tt.want {
				t.Errorf("Message = %q, want %q", v.Message, tt.want)
			}
			if v.State != Failed || v.Busy() {
				t.Errorf("State = %v, want failed", v.State)
			}
			if s.Len() != 0 || len(rec.routes) != 0 || rec.closed != 0 {
				t.Errorf("side effects on failure: store=%d routes=%v closed=%d", s.Len(), rec.routes, rec.closed)
			}
		})
	}
}

type failingStore struct{}

func (failingStore) Set(key, value string) error { return errors.New("disk full") }

func TestSubmitStoreFailure(t *testing.T) {
	f, rec := newFlow(&fakeAuth{token: "abc"}, failingStore{})
	f.SetUsername("ikkeh")
	f.SetPassword("secret")

	if err := f.Submit(context.Background()); err == nil {
		t.Fatal("Submit() error = nil, want the store error")
	}
	if v := f.View(); v.Message != MsgLoginFailed {
		t.Errorf("Message = %q, want %q", v.Message, MsgLoginFailed)
	}
	if len(rec.routes) != 0 || rec.closed != 0 {
		t.Errorf("navigated or closed despite the store failure")
	}
}

func TestEditReturnsToIdle(t *testing.T) {
	f, _ := newFlow(&fakeAuth{err: &navdash.RejectedError{Status: 401, Message: "bad credentials"}}, &store.Memory{})
	f.SetUsername("ikkeh")
	f.SetPassword("wrong")
	f.Submit(context.Background())
	if f.View().State != Failed {
		t.Fatalf("State = %v, want failed", f.View().State)
	}

	f.SetPassword("secret")
	if v := f.View(); v.State != Idle || v.Message != "" {
		t.Errorf("after edit View() = %+v, want idle without message", v)
	}
}

func TestSubmitInFlight(t *testing.T) {
	auth := &fakeAuth{token: "abc", block: make(chan struct{})}
	f, _ := newFlow(auth, &store.Memory{})
	f.SetUsername("ikkeh")
	f.SetPassword("secret")

	done := make(chan error)
	go func() { done <- f.Submit(context.Background()) }()

	// wait for the first submission to reach the authenticator.
	for f.View().State != Submitting {
		runtime.Gosched()
	}
	if !f.View().Busy() {
		t.Errorf("Busy() = false while submitting")
	}
	if err := f.Submit(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Errorf("second Submit() error = %v, want ErrInFlight", err)
	}
	close(auth.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if auth.calls != 1 {
		t.Errorf("authenticator called %d times, want 1", auth.calls)
	}
}

func TestTogglePasswordVisibility(t *testing.T) {
	f, _ := newFlow(&fakeAuth{}, &store.Memory{})
	if f.View().ShowPassword {
		t.Fatal("password visible by default")
	}
	f.TogglePasswordVisibility()
	if !f.View().ShowPassword {
		t.Error("password hidden after one toggle")
	}
	f.TogglePasswordVisibility()
	if f.View().ShowPassword {
		t.Error("password visible after two toggles")
	}
}

func TestClose(t *testing.T) {
	f, rec := newFlow(&fakeAuth{}, &store.Memory{})
	f.Close()
	if rec.closed != 1 {
		t.Errorf("close requested %d times, want 1", rec.closed)
	}
}

// TestSubmitOverHTTP runs the flow against the fake authentication service.
func TestSubmitOverHTTP(t *testing.T) {
	backend := &apitest.Backend{Username: "ikkeh", Password: "secret", Token: "abc"}
	srv := backend.Start(t)
	c, err := client.New(srv.URL, srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("ok", func(t *testing.T) {
		var s store.Memory
		f, rec := newFlow(c, &s)
		f.SetUsername("ikkeh")
		f.SetPassword("secret")
		if err := f.Submit(context.Background()); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if got, _ := s.Get("token"); got != "abc" {
			t.Errorf("token = %q, want abc", got)
		}
		if len(rec.routes) != 1 || rec.routes[0] != "/dashboard" {
			t.Errorf("navigation = %v", rec.routes)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		var s store.Memory
		f, rec := newFlow(c, &s)
		f.SetUsername("ikkeh")
		f.SetPassword("wrong")
		f.Submit(context.Background())
		if got := f.View().Message; got != "bad credentials" {
			t.Errorf("Message = %q, want %q", got, "bad credentials")
		}
		if s.Len() != 0 || len(rec.routes) != 0 {
			t.Errorf("stored or navigated on a rejected login")
		}
	})

	t.Run("network error", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		c, err := client.New(dead.URL, dead.URL)
		if err != nil {
			t.Fatal(err)
		}
		f, _ := newFlow(c, &store.Memory{})
		f.SetUsername("ikkeh")
		f.SetPassword("secret")
		f.Submit(context.Background())
		if got := f.View().Message; got != MsgNetworkError {
			t.Errorf("Message = %q, want %q", got, MsgNetworkError)
		}
	})
}
