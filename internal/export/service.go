package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pulse/internal/importer/sheet"
	"github.com/MrJamesThe3rd/pulse/internal/money"
	"github.com/MrJamesThe3rd/pulse/internal/month"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

const (
	SheetName   = "vendas.csv"
	SummaryName = "resumo.txt"
	receiptsDir = "comprovantes/"
)

// Item is one exported sale and the archive path of its receipt, if any.
type Item struct {
	Sale        *sale.Sale
	ReceiptPath string
}

type SaleLister interface {
	List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error)
}

// Service packs a month of sales into a zip archive.
type Service struct {
	sales SaleLister
	loc   *time.Location
}

func NewService(sales SaleLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{sales: sales, loc: loc}
}

// Items lists the sales of m, oldest first, with the names their receipts get in the archive.
func (s *Service) Items(ctx context.Context, m month.Key) ([]Item, error) {
	sales, err := s.sales.List(ctx, sale.ListFilter{
		StartDate: new(m.Start(s.loc)),
		EndDate:   new(m.Add(1).Start(s.loc)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}

	items := make([]Item, 0, len(sales))

	// Stores list newest first; the sheet reads better chronologically.
	for i := len(sales) - 1; i >= 0; i-- {
		item := Item{Sale: sales[i]}

		if sales[i].HasReceipt() {
			mediaType, _, err := sale.DecodeReceipt(sales[i].Receipt)
			if err != nil {
				return nil, fmt.Errorf("decoding receipt of sale %s: %w", sales[i].ID, err)
			}

			item.ReceiptPath = receiptsDir + s.receiptFilename(sales[i], mediaType)
		}

		items = append(items, item)
	}

	return items, nil
}

// Export writes the zip for m to w: the sheet, a text summary and every decoded receipt.
func (s *Service) Export(ctx context.Context, m month.Key, w io.Writer) ([]Item, error) {
	items, err := s.Items(ctx, m)
	if err != nil {
		return nil, err
	}

	zw := zip.NewWriter(w)

	if err := s.writeSheet(zw, items); err != nil {
		return nil, err
	}

	summary, err := zw.Create(SummaryName)
	if err != nil {
		return nil, fmt.Errorf("creating summary: %w", err)
	}

	if _, err := io.WriteString(summary, s.Summary(items)); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	for _, item := range items {
		if item.ReceiptPath == "" {
			continue
		}

		_, data, err := sale.DecodeReceipt(item.Sale.Receipt)
		if err != nil {
			return nil, fmt.Errorf("decoding receipt of sale %s: %w", item.Sale.ID, err)
		}

		f, err := zw.Create(item.ReceiptPath)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", item.ReceiptPath, err)
		}

		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", item.ReceiptPath, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return items, nil
}

// writeSheet uses the same layout the importer reads, so an exported month can be imported back.
func (s *Service) writeSheet(zw *zip.Writer, items []Item) error {
	f, err := zw.Create(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	cw := csv.NewWriter(f)
	cw.Comma = ';'

	if err := cw.Write([]string{"Data", "Descrição", "Status", "Valor", "Comprovante"}); err != nil {
		return fmt.Errorf("writing sheet header: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.Sale.Date.In(s.loc).Format("02/01/2006 15:04"),
			item.Sale.Description,
			sheet.StatusLabel(item.Sale.Status),
			strings.Replace(item.Sale.Amount.StringFixed(2), ".", ",", 1),
			strings.TrimPrefix(item.ReceiptPath, receiptsDir),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing sale %s: %w", item.Sale.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	return nil
}

// receiptFilename builds "20250301_Description_1a2b3c4d.ext"; the id suffix keeps names unique.
func (s *Service) receiptFilename(sl *sale.Sale, mediaType string) string {
	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		ext = exts[0]
	}

	safeDesc := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, sl.Description)

	return fmt.Sprintf("%s_%s_%s%s", sl.Date.In(s.loc).Format("20060102"), safeDesc, sl.ID.String()[:8], ext)
}

// Summary renders one line per sale, ready to paste into an email to the accountant.
func (s *Service) Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		receipt := "Sem comprovante"
		if item.ReceiptPath != "" {
			receipt = strings.TrimPrefix(item.ReceiptPath, receiptsDir)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s\n",
			item.Sale.Date.In(s.loc).Format("02/01/2006"),
			item.Sale.Description,
			money.FormatBRL(item.Sale.Amount),
			sheet.StatusLabel(item.Sale.Status),
			receipt,
		)
	}

	return sb.String()
}
