package renderer

import (
	"context"

	"github.com/etnz/navdash"
)

type staticSource struct{ portfolios []navdash.Portfolio }

func (s *staticSource) Portfolios(ctx context.Context) ([]navdash.Portfolio, error) {
	return s.portfolios, nil
}

func (s *staticSource) PortfolioNAV(ctx context.Context, id int64) (*navdash.PortfolioDetail, error) {
	for _, p := range s.portfolios {
		if p.ID == id {
			return &navdash.PortfolioDetail{Portfolio: p, ProductName: p.MutualFund.Name}, nil
		}
	}
	return nil, &navdash.RejectedError{Op: "fetch portfolio nav", Status: 404}
}
