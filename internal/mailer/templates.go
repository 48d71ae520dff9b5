package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateData carries the dynamic values rendered into an email template
type TemplateData struct {
	RecipientName string
	Subject       string
	Body          string
	Data          map[string]interface{}
}

// SendAppointmentConfirmation renders and sends the appointment confirmation email
func (c *Client) SendAppointmentConfirmation(to, name string, details map[string]interface{}) error {
	data := TemplateData{
		RecipientName: name,
		Subject:       "Your consultation is booked",
		Data:          details,
	}

	body, err := renderTemplate(appointmentConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render appointment confirmation: %w", err)
	}

	return c.SendHTMLEmail(to, data.Subject, body)
}

// SendInquiryAcknowledgement renders and sends the inquiry auto-reply email
func (c *Client) SendInquiryAcknowledgement(to, name string) error {
	data := TemplateData{
		RecipientName: name,
		Subject:       "We received your inquiry",
	}

	body, err := renderTemplate(inquiryAckTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render inquiry acknowledgement: %w", err)
	}

	return c.SendHTMLEmail(to, data.Subject, body)
}

// SendPaymentReceipt renders and sends the payment receipt email
func (c *Client) SendPaymentReceipt(to, name string, receipt map[string]interface{}) error {
	data := TemplateData{
		RecipientName: name,
		Subject:       "Payment receipt",
		Data:          receipt,
	}

	body, err := renderTemplate(paymentReceiptTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render payment receipt: %w", err)
	}

	return c.SendHTMLEmail(to, data.Subject, body)
}

// SendAdminNotification sends a short internal notification to the back office
func (c *Client) SendAdminNotification(to, subject, message string) error {
	data := TemplateData{
		Subject: subject,
		Body:    message,
	}

	body, err := renderTemplate(adminNotificationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render admin notification: %w", err)
	}

	return c.SendHTMLEmail(to, subject, body)
}

func renderTemplate(tmpl string, data TemplateData) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Email templates
const (
	appointmentConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #0b5fff; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .details { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Consultation Confirmed</h1>
        </div>
        <div class="content">
            <p>Hi {{.RecipientName}},</p>
            <p>Your consultation with GlobalPath Education has been booked.</p>
            <div class="details">
                {{range $key, $value := .Data}}
                <p><strong>{{$key}}:</strong> {{$value}}</p>
                {{end}}
            </div>
            <p>If you need to reschedule, reply to this email or call our office.</p>
        </div>
        <div class="footer">
            <p>&copy; GlobalPath Education. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

	inquiryAckTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #0b5fff; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thanks for reaching out</h1>
        </div>
        <div class="content">
            <p>Hi {{.RecipientName}},</p>
            <p>We received your inquiry and one of our counselors will get back to you within one business day.</p>
            <p>In the meantime, feel free to browse our destination guides and program listings.</p>
        </div>
        <div class="footer">
            <p>&copy; GlobalPath Education. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

	paymentReceiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #12b886; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .receipt { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Payment Received</h1>
        </div>
        <div class="content">
            <p>Hi {{.RecipientName}},</p>
            <p>Thank you for your payment. Here is your receipt:</p>
            <div class="receipt">
                {{range $key, $value := .Data}}
                <p><strong>{{$key}}:</strong> {{$value}}</p>
                {{end}}
            </div>
        </div>
        <div class="footer">
            <p>&copy; GlobalPath Education. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

	adminNotificationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #333; color: white; padding: 15px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>{{.Subject}}</h2>
        </div>
        <div class="content">
            <p>{{.Body}}</p>
        </div>
    </div>
</body>
</html>
`
)
