package notifier

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"tablehouse/money"
	"tablehouse/notify-svc/internal/domain"
)

const timeLayout = "Mon Jan 2 2006 15:04 MST"

var funcs = map[string]interface{}{
	"lineTotal": func(item domain.OrderItem) money.Cents { return item.UnitPrice.Mul(item.Quantity) },
	"upper":     strings.ToUpper,
}

var htmlBody = htmltemplate.Must(htmltemplate.New("staff.html").Funcs(funcs).Parse(`<html>
<body>
<h2>New Order: {{.Order.OrderNumber}}</h2>
<p><strong>Placed:</strong> {{.Placed}}<br>
<strong>Type:</strong> {{upper .Order.OrderType}}<br>
<strong>Ready by:</strong> {{.ReadyBy}}</p>
<h3>Customer</h3>
<p>{{.Order.Customer.Name}}<br>{{.Order.Customer.Email}}<br>{{.Order.Customer.Phone}}</p>
{{- with .Order.DeliveryAddress}}
<h3>Delivery address</h3>
<p>{{.Street}}<br>{{.City}}, {{.State}} {{.ZipCode}}</p>
{{- end}}
<h3>Items</h3>
<table>
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{- range .Order.Items}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>${{.UnitPrice}}</td><td>${{lineTotal .}}</td></tr>
{{- end}}
</table>
<p>Subtotal: ${{.Order.Subtotal}}<br>
Tax: ${{.Order.Tax}}<br>
<strong>Total: ${{.Order.Total}}</strong></p>
{{- with .Order.SpecialInstructions}}
<h3>Special instructions</h3>
<p>{{.}}</p>
{{- end}}
</body>
</html>
`))

var textBody = texttemplate.Must(texttemplate.New("staff.txt").Funcs(funcs).Parse(`New Order: {{.Order.OrderNumber}}
Placed: {{.Placed}}
Type: {{upper .Order.OrderType}}
Ready by: {{.ReadyBy}}

Customer: {{.Order.Customer.Name}} <{{.Order.Customer.Email}}> {{.Order.Customer.Phone}}
{{- with .Order.DeliveryAddress}}
Deliver to: {{.Street}}, {{.City}}, {{.State}} {{.ZipCode}}
{{- end}}

Items:
{{- range .Order.Items}}
  {{.Quantity}} x {{.Name}} @ ${{.UnitPrice}} = ${{lineTotal .}}
{{- end}}

Subtotal: ${{.Order.Subtotal}}
Tax: ${{.Order.Tax}}
Total: ${{.Order.Total}}
{{- with .Order.SpecialInstructions}}

Special instructions: {{.}}
{{- end}}
`))

type emailView struct {
	Order   *domain.Order
	Placed  string
	ReadyBy string
}

type Email struct {
	Subject string
	HTML    string
	Text    string
}

// RenderStaffEmail formats times in loc; a nil loc means UTC.
func RenderStaffEmail(order *domain.Order, loc *time.Location) (Email, error) {
	if loc == nil {
		loc = time.UTC
	}
	view := emailView{
		Order:   order,
		Placed:  order.CreatedAt.In(loc).Format(timeLayout),
		ReadyBy: order.EstimatedDeliveryTime.In(loc).Format(timeLayout),
	}

	var html, text bytes.Buffer
	if err := htmlBody.Execute(&html, view); err != nil {
		return Email{}, err
	}
	if err := textBody.Execute(&text, view); err != nil {
		return Email{}, err
	}
	return Email{
		Subject: "New Order: " + order.OrderNumber,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
