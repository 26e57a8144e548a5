package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// CodeSheetData is everything the printed sheet shows. The codes are
// copied by hand into the external sales system, so the layout keeps
// one code per row in registration order.
type CodeSheetData struct {
	OrderNumber string
	StoreName   string
	SellerName  string
	CreatedAt   string

	Groups []CodeSheetGroup
}

type CodeSheetGroup struct {
	Title   string
	Entries []CodeSheetEntry
}

type CodeSheetEntry struct {
	Code        string
	Description string
	Value       string
}

// Provider renders documents for the sales floor.
type Provider interface {
	GenerateCodeSheet(ctx context.Context, data CodeSheetData) (io.Reader, error)
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateCodeSheet(ctx context.Context, data CodeSheetData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Contract codes", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Order "+data.OrderNumber, props.Text{
			Size:  12,
			Align: align.Right,
			Top:   4,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New(data.StoreName, props.Text{Style: fontstyle.Bold}),
			text.New("Seller: "+data.SellerName, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Registered: "+data.CreatedAt, props.Text{Align: align.Right}),
		),
	)

	for i, group := range data.Groups {
		m.AddRow(12,
			text.NewCol(12, fmt.Sprintf("%d. %s", i+1, group.Title), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   3,
			}),
		)
		m.AddRow(8,
			text.NewCol(3, "Code", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(7, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Value", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, entry := range group.Entries {
			m.AddRow(8,
				text.NewCol(3, entry.Code, props.Text{Size: 9}),
				text.NewCol(7, entry.Description, props.Text{Size: 9}),
				text.NewCol(2, entry.Value, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
