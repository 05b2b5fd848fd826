// Package viewer implements the portfolio viewer: a list of the user's portfolios and,
// for the selected one, the detail of its NAV history.
//
// List and detail are mutually exclusive views. Each request kind has its own status,
// and every request is tagged with a sequence number: a response is only applied if no
// newer request of the same kind was dispatched since, so a slow answer never overwrites
// a fresher one.
package viewer

import (
	"context"
	"sync"

	"github.com/etnz/navdash"
	"go.uber.org/zap"
)

// Source serves the viewer data, typically a *client.Client.
type Source interface {
	Portfolios(ctx context.Context) ([]navdash.Portfolio, error)
	PortfolioNAV(ctx context.Context, id int64) (*navdash.PortfolioDetail, error)
}

// Mode is the view displayed by the viewer.
type Mode int

const (
	ListMode Mode = iota
	DetailMode
	LoadingMode
)

func (m Mode) String() string {
	switch m {
	case ListMode:
		return "list"
	case DetailMode:
		return "detail"
	case LoadingMode:
		return "loading"
	}
	return "unknown"
}

// Placeholder notices for the actions that have no backend yet.
const (
	NoticeAdd  = "Add Portfolio clicked"
	NoticeEdit = "Edit Portfolio clicked"
)

// Status tracks the latest request of one kind.
type Status struct {
	Loading bool
	Err     error  // failure of the latest completed request, nil on success
	Seq     uint64 // sequence number of the latest dispatched request
}

// Viewer is the portfolio viewer state. It is safe for concurrent use.
type Viewer struct {
	src    Source
	logger *zap.Logger

	mu         sync.Mutex
	portfolios []navdash.Portfolio
	selected   *navdash.Portfolio
	detail     *navdash.PortfolioDetail
	list       Status
	nav        Status
}

// New returns a viewer in list mode, with no data loaded yet.
func New(src Source, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer{src: src, logger: logger}
}

// Load fetches the list of portfolios. On failure the previous list is kept.
func (v *Viewer) Load(ctx context.Context) error {
	v.mu.Lock()
	v.list.Seq++
	seq := v.list.Seq
	v.list.Loading = true
	v.mu.Unlock()

	portfolios, err := v.src.Portfolios(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.list.Seq {
		v.logger.Debug("discarding stale portfolio list", zap.Uint64("seq", seq), zap.Uint64("latest", v.list.Seq))
		return nil
	}
	v.list.Loading = false
	v.list.Err = err
	if err != nil {
		v.logger.Warn("failed to fetch portfolios", zap.Error(err))
		return err
	}
	v.portfolios = portfolios
	return nil
}

// ViewDetails selects p and fetches its NAV history. The detail view is shown once the
// history is loaded; on failure the list stays displayed.
func (v *Viewer) ViewDetails(ctx context.Context, p navdash.Portfolio) error {
	v.mu.Lock()
	v.nav.Seq++
	seq := v.nav.Seq
	v.nav.Loading = true
	v.selected = &p
	v.detail = nil
	v.mu.Unlock()

	detail, err := v.src.PortfolioNAV(ctx, p.ID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.nav.Seq {
		v.logger.Debug("discarding stale portfolio detail", zap.Int64("portfolio", p.ID), zap.Uint64("seq", seq), zap.Uint64("latest", v.nav.Seq))
		return nil
	}
	v.nav.Loading = false
	v.nav.Err = err
	if err != nil {
		v.logger.Warn("failed to fetch portfolio detail", zap.Int64("portfolio", p.ID), zap.Error(err))
		return err
	}
	v.detail = detail
	return nil
}

// Back leaves the detail view. Any detail request still in flight is discarded.
func (v *Viewer) Back() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.Seq++
	v.nav.Loading = false
	v.nav.Err = nil
	v.selected = nil
	v.detail = nil
}

// Add is the placeholder action to create a portfolio.
func (v *Viewer) Add() string { return NoticeAdd }

// Edit is the placeholder action to edit p.
func (v *Viewer) Edit(p navdash.Portfolio) string { return NoticeEdit }

// Find returns the loaded portfolio with the given id.
func (v *Viewer) Find(id int64) (navdash.Portfolio, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.portfolios {
		if p.ID == id {
			return p, true
		}
	}
	return navdash.Portfolio{}, false
}

// View is an immutable snapshot of the viewer, for rendering.
type View struct {
	Mode       Mode
	Portfolios []navdash.Portfolio
	Selected   *navdash.Portfolio
	Detail     *navdash.PortfolioDetail
	List       Status
	NAV        Status
}

// View returns the current state of the viewer.
//
// The detail view requires both a selection and its loaded history. While the request
// feeding the displayed view is in flight, the mode is LoadingMode.
func (v *Viewer) View() View {
	v.mu.Lock()
	defer v.mu.Unlock()

	view := View{
		Portfolios: append([]navdash.Portfolio(nil), v.portfolios...),
		List:       v.list,
		NAV:        v.nav,
	}
	if v.selected != nil {
		p := *v.selected
		view.Selected = &p
	}
	if v.detail != nil {
		d := *v.detail
		d.NavSeries = append([]navdash.NavRecord(nil), v.detail.NavSeries...)
		view.Detail = &d
	}

	switch {
	case view.Selected != nil && v.nav.Loading:
		view.Mode = LoadingMode
	case view.Selected != nil && view.Detail != nil:
		view.Mode = DetailMode
	case v.list.Loading:
		view.Mode = LoadingMode
	default:
		view.Mode = ListMode
	}
	return view
}
