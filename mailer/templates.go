package mailer

import (
	"html/template"

	"marketplace-service/models"
)

type linkData struct {
	Name string
	Link string
}

type orderData struct {
	Name  string
	Order *models.Order
}

var verificationTmpl = template.Must(template.New("verification").Parse(`
<h1>Welcome, {{.Name}}!</h1>
<p>Thank you for registering. Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}" style="background-color:#4CAF50;color:white;padding:14px 20px;text-decoration:none;border-radius:5px;">Verify your email address</a></p>
<p>If you did not create an account you can ignore this message.</p>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<h1>Password reset request</h1>
<p>Hi {{.Name}}, we received a request to reset your password. The link below is valid for one hour:</p>
<p><a href="{{.Link}}" style="background-color:#007BFF;color:white;padding:14px 20px;text-decoration:none;border-radius:5px;">Reset your password</a></p>
<p>If you did not request a reset, no changes have been made to your account.</p>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h1>Thank you for your order, {{.Name}}!</h1>
<p>We received the payment for order <strong>{{.Order.ID}}</strong>.</p>
<p>Items: {{len .Order.Items}}<br/>Total: {{printf "%.2f" .Order.TotalAmount}}</p>
<p>We will let you know when it ships.</p>
`))

var statusTmpl = template.Must(template.New("status").Parse(`
<h1>Order update</h1>
<p>Hi {{.Name}}, your order <strong>{{.Order.ID}}</strong> is now <strong>{{.Order.Status}}</strong>.</p>
`))
