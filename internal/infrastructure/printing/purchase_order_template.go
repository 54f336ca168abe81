package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const purchaseOrderHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Order.PONo}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #222; }
h1 { font-size: 18px; margin: 0; }
h2 { font-size: 14px; margin: 4px 0 12px; color: #555; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #bbb; padding: 4px 6px; }
th { background: #f0f0f0; text-align: left; }
td.num { text-align: right; }
.meta td { border: none; padding: 2px 0; }
.totals td { font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Facility}}</h1>
<h2>Purchase Order</h2>
<table class="meta">
<tr><td>PO No: <strong>{{.Order.PONo}}</strong></td><td>Date: {{formatDate .Order.PODate}}</td></tr>
<tr><td>Distributor: {{with .Order.Distributor}}{{title .Name}}{{else}}#{{$.Order.DistributorID}}{{end}}</td><td>Status: {{.Order.Status}}</td></tr>
{{with .Order.Distributor}}{{if .Address}}<tr><td colspan="2">{{.Address}}{{if .Phone}} · {{.Phone}}{{end}}</td></tr>{{end}}{{end}}
{{with .Order.PaymentTerm}}<tr><td colspan="2">Payment term: {{.Label}}</td></tr>{{end}}
</table>
<table>
<thead>
<tr><th>#</th><th>Medicine</th><th>Qty</th><th>Rate</th><th>Disc %</th><th>Tax %</th><th>Amount</th></tr>
</thead>
<tbody>
{{range $i, $item := .Order.Items}}
<tr>
<td>{{inc $i}}</td>
<td>{{with $item.Medicine}}{{title .Name}}{{if .Strength}} {{.Strength}}{{end}}{{else}}#{{$item.MedicineID}}{{end}}</td>
<td class="num">{{formatQty $item.OrderedQty}}</td>
<td class="num">{{formatMoney $item.Rate}}</td>
<td class="num">{{formatMoney $item.DiscountPercent}}</td>
<td class="num">{{formatMoney $item.TaxPercent}}</td>
<td class="num">{{formatMoney $item.TotalAmount}}</td>
</tr>
{{end}}
</tbody>
<tfoot>
<tr class="totals"><td colspan="6">Total</td><td class="num">{{formatMoney .Order.NetAmount}}</td></tr>
</tfoot>
</table>
{{if .Order.Remarks}}<p>Remarks: {{.Order.Remarks}}</p>{{end}}
<p>Printed {{formatDateTime .PrintedAt}}</p>
</body>
</html>`

const purchaseOrderFooter = `<div style="font-size:8px;width:100%;text-align:center;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

// purchaseOrderView is the data handed to the purchase order template
type purchaseOrderView struct {
	Facility  string
	Order     *pharmacy.PurchaseOrder
	PrintedAt time.Time
}

var (
	titleCaser = cases.Title(language.English)
	numbers    = message.NewPrinter(language.English)
)

var purchaseOrderTemplate = template.Must(template.New("purchase_order").Funcs(template.FuncMap{
	"formatMoney":    formatMoney,
	"formatQty":      formatQty,
	"formatDate":     formatDate,
	"formatDateTime": formatDateTime,
	"title":          titleCase,
	"inc":            func(i int) int { return i + 1 },
}).Parse(purchaseOrderHTML))

// renderPurchaseOrderHTML executes the purchase order template
func renderPurchaseOrderHTML(view purchaseOrderView) (string, error) {
	var buf bytes.Buffer
	if err := purchaseOrderTemplate.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to render purchase order template", err)
	}
	return buf.String(), nil
}

// formatMoney formats a decimal with two places and thousand separators
// Example: 1234.5 -> "1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + decPart
}

func formatQty(n int64) string {
	return numbers.Sprintf("%d", n)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 15:04")
}

func titleCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}
