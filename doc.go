// Package navdash provides the data model shared by the navdash dashboard: the
// authenticated user, mutual-fund portfolios and their net asset value (NAV) history, as
// served by the portfolio API.
//
// The dashboard itself is split in small packages:
//   - client: HTTP access to the authentication endpoint and the portfolio API.
//   - store: the local key/value store holding the session token.
//   - login: the login overlay state machine.
//   - viewer: the portfolio viewer, switching between a list and a detail view.
//   - session: the user record behind the welcome panel.
//   - renderer: markdown rendering for every view.
//
// This package serves as the foundation of the `navdash` command-line tool.
package navdash
