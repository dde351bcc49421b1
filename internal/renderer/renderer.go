package renderer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/edwards-stuff/blog-builder/internal/models"
)

// articleTemplate is the fixed article layout: embedded stylesheet,
// centered header, one product block per record separated by rules.
// Interpolated titles and URLs are contextually escaped by
// html/template; the lead is caller-supplied HTML and passes through.
const articleTemplate = `
  <style>
    .product-block {
      max-width: 640px;
      margin: 0 auto 82px;
      text-align: center;
    }
    .product-block img {
      width: 100%;
      max-width: 400px;
      height: auto;
      margin-bottom: 12px;
    }
    .product-title {
      font-size: 14px;
      line-height: 1.15;
      letter-spacing: .02em;
      margin: 0 0 2px;
      font-weight: 400;
      overflow-wrap: anywhere;
    }
    .product-price {
      font-size: 14px;
      margin: 0 0 6px;
      font-weight: 400;
      line-height: 1.15;
    }
    .product-link {
      font-size: 14px;
      color: #0011ffff;
      text-decoration: underline;
      letter-spacing: .04em;
    }
    hr {
      border: none;
      height: 1px;
      background: #eee;
      margin: 64px 0;
    }
  </style>

  <article style="
      max-width: 880px;
      margin: 0 auto;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Hiragino Kaku Gothic ProN', 'Noto Sans JP', sans-serif;
      line-height: 1.8;
  ">
    <header style="padding: 72px 0 16px; text-align:center;">
      <h1 style="font-size: 26px; letter-spacing: .03em; margin-bottom: 14px; font-weight: 400;">
        {{.Title}}
      </h1>
      {{if .LeadHTML}}<p style="max-width:640px;margin:0 auto;font-size:15px;color:#555;">{{.LeadHTML}}</p>{{end}}
    </header>

    <hr />

    {{range .Products}}
    <section class="product-block">
      {{if .Image}}<img src="{{.Image}}" alt="{{.Title}}">{{end}}
      <div class="product-title">{{.Title}}</div>
      <div class="product-price">{{.Price}}</div>
      <a href="{{.URL}}" target="_blank" class="product-link">商品詳細ページ</a>
    </section>
    <hr />
    {{end}}
  </article>
`

var articleTmpl = template.Must(template.New("article").Parse(articleTemplate))

// jaPrinter formats numbers and currency symbols for the Japanese locale
var jaPrinter = message.NewPrinter(language.Japanese)

type articleData struct {
	Title    string
	LeadHTML template.HTML
	Products []productView
}

type productView struct {
	Title string
	Image string
	Price string
	URL   string
}

// Render produces the article body HTML for the given title, lead and
// product records. It is a pure function of its inputs: no network, no
// clock, identical inputs yield byte-identical output.
func Render(title, leadHTML string, products []models.ProductRecord) (string, error) {
	data := articleData{
		Title:    title,
		LeadHTML: template.HTML(leadHTML),
		Products: make([]productView, 0, len(products)),
	}

	for _, p := range products {
		data.Products = append(data.Products, productView{
			Title: p.Title,
			Image: p.Image,
			Price: FormatPrice(p.PriceAmount, p.CurrencyCode),
			URL:   p.URL,
		})
	}

	var buf bytes.Buffer
	if err := articleTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render article body: %w", err)
	}
	return buf.String(), nil
}

// FormatPrice rounds the decimal amount to the nearest whole unit
// (half away from zero) and formats it as a localized currency string
// with a tax-included annotation. Display-only: never used for
// settlement. Unparseable amounts render as zero, unknown currency
// codes fall back to JPY.
func FormatPrice(amount, currencyCode string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		d = decimal.Zero
	}
	whole := d.Round(0).IntPart()

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.JPY
	}

	symbol := jaPrinter.Sprint(currency.Symbol(unit))
	return jaPrinter.Sprintf("%s%v (税込)", symbol, number.Decimal(whole))
}
