package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/pulse/internal/importer/sheet"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

var ErrInvalidFile = errors.New("invalid import file")

type BatchCreator interface {
	CreateBatch(ctx context.Context, params []sale.CreateParams) ([]*sale.Sale, error)
}

type Service struct {
	parser Importer
	sales  BatchCreator
}

func NewService(sales BatchCreator, loc *time.Location) *Service {
	return &Service{
		parser: sheet.NewParser(loc),
		sales:  sales,
	}
}

// Import parses r and creates every sale in it, or none when any row is invalid.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]*sale.Sale, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if len(params) == 0 {
		return []*sale.Sale{}, nil
	}

	sales, err := s.sales.CreateBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("import sales: %w", err)
	}

	return sales, nil
}
