package cmd

import (
	"github.com/etnz/navdash"
	"github.com/etnz/navdash/renderer"
	"github.com/etnz/navdash/session"
	"go.uber.org/zap"
)

// router maps the client routes to the pages displayed in the terminal.
type router struct {
	app      *app
	username string // greeted when the token carries no user
}

func (r *router) Navigate(route string) {
	switch route {
	case r.app.cfg.DashboardRoute:
		printMarkdown(renderer.HomeMarkdown(r.app.currentUser(navdash.User{Username: r.username})))
	default:
		r.app.logger.Warn("no page for route", zap.String("route", route))
	}
}

// currentUser decodes the user from the stored token, fields of fallback fill the
// gaps.
func (a *app) currentUser(fallback navdash.User) navdash.User {
	u, err := session.UserFromToken(a.token())
	if err != nil {
		a.logger.Debug("cannot read user from token", zap.Error(err))
		return fallback
	}
	if u.Role == "" {
		u.Role = fallback.Role
	}
	return u
}
