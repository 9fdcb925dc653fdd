package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/QualitasTechnologies/bom-tracker/internal/po"
	"github.com/QualitasTechnologies/bom-tracker/web"
)

// Renderer produces the printable purchase order PDF. Amounts are formatted
// with Indian digit grouping (1,23,456.00).
type Renderer struct {
	client  *Client
	tmpl    *template.Template
	printer *message.Printer
}

// NewRenderer parses the embedded template up front so a broken template
// fails at startup rather than on the first dispatch.
func NewRenderer(client *Client) (*Renderer, error) {
	printer := message.NewPrinter(language.MustParse("en-IN"))
	funcs := template.FuncMap{
		"inr": func(d decimal.Decimal) string {
			value, _ := d.Float64()
			return printer.Sprintf("%v", number.Decimal(value,
				number.MinFractionDigits(2), number.MaxFractionDigits(2)))
		},
		"qty": func(d decimal.Decimal) string {
			return d.String()
		},
	}
	tmpl, err := template.New("po.html").Funcs(funcs).ParseFS(web.Templates, "templates/po.html")
	if err != nil {
		return nil, fmt.Errorf("report: parse po template: %w", err)
	}
	return &Renderer{client: client, tmpl: tmpl, printer: printer}, nil
}

// RenderPO renders the order to HTML and converts it through Gotenberg.
func (r *Renderer) RenderPO(ctx context.Context, order po.PurchaseOrder) ([]byte, error) {
	html, err := r.RenderHTML(order)
	if err != nil {
		return nil, err
	}
	return r.client.RenderHTML(ctx, html)
}

// RenderHTML renders the order template without the PDF conversion step.
func (r *Renderer) RenderHTML(order po.PurchaseOrder) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "po.html", order); err != nil {
		return "", fmt.Errorf("report: render po %s: %w", order.PONumber, err)
	}
	return buf.String(), nil
}
