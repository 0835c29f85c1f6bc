package mailer

import (
	"bytes"
	"html/template"
)

var (
	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>Hi {{.Name}},</p>
<p>Click the link below to reset your password:</p>
<a href="{{.URL}}">{{.URL}}</a>
<p>This link expires in 20 minutes.</p>`))

	orderPlacedTmpl = template.Must(template.New("order-placed").Parse(
		`<p>Hi {{.Name}},</p>
<p>Thank you for your order! We have received order #{{.OrderRef}} and it is now being processed.</p>
<p>Total: {{printf "%.2f" .Total}}</p>
<p>Thank you for shopping with us!</p>`))

	paymentConfirmedTmpl = template.Must(template.New("payment-confirmed").Parse(
		`<p>Hi {{.Name}},</p>
<p>Payment for order #{{.OrderRef}} has been received. We will notify you once it ships.</p>`))
)

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func ResetPassword(to, name, url string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML:    render(resetTmpl, map[string]string{"Name": name, "URL": url}),
	}
}

func OrderPlaced(to, name, orderRef string, total float64) Message {
	return Message{
		To:      to,
		Subject: "We've Received Your Order #" + orderRef,
		HTML:    render(orderPlacedTmpl, map[string]any{"Name": name, "OrderRef": orderRef, "Total": total}),
	}
}

func PaymentConfirmed(to, name, orderRef string) Message {
	return Message{
		To:      to,
		Subject: "Order Confirmed - Your order #" + orderRef,
		HTML:    render(paymentConfirmedTmpl, map[string]string{"Name": name, "OrderRef": orderRef}),
	}
}
