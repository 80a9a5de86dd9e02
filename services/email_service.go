package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one HTML message
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends through an SMTP relay with gomail
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// EmailResult reports the outcome of one templated send
type EmailResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type emailTemplate struct {
	subject func(data map[string]interface{}) string
	body    *template.Template
}

var templateFuncs = template.FuncMap{"get": lookup}

// lookup reads key from data, or fallback when absent or empty
func lookup(data map[string]interface{}, key, fallback string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return fallback
	}
	s := fmt.Sprint(v)
	if s == "" {
		return fallback
	}
	return s
}

func mustTemplate(name, body string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).Parse(
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">` + body + `</div>`,
	))
}

var emailTemplates = map[string]emailTemplate{
	"low-stock": {
		subject: func(d map[string]interface{}) string { return "Low Stock Alert - " + lookup(d, "productName", "") },
		body: mustTemplate("low-stock", `
<h2 style="color: #ff9800;">Low Stock Alert</h2>
<p>Product <strong>{{get . "productName" ""}}</strong> is running low on stock.</p>
<p><strong>Current Stock:</strong> {{get . "currentStock" "0"}}</p>
<p><strong>Minimum Required:</strong> {{get . "minStock" "0"}}</p>
<p style="color: #d32f2f;">Please restock soon!</p>`),
	},
	"new-credit": {
		subject: func(d map[string]interface{}) string { return "New Credit Customer - " + lookup(d, "customerName", "") },
		body: mustTemplate("new-credit", `
<h2 style="color: #2196f3;">New Credit Customer Added</h2>
<p><strong>Customer:</strong> {{get . "customerName" ""}}</p>
<p><strong>Phone:</strong> {{get . "phone" "N/A"}}</p>
<p><strong>Credit Limit:</strong> RS {{get . "creditLimit" "0"}}</p>
<p><strong>Added By:</strong> {{get . "addedBy" "System"}}</p>`),
	},
	"employee-added": {
		subject: func(d map[string]interface{}) string { return "New Employee Added - " + lookup(d, "employeeName", "") },
		body: mustTemplate("employee-added", `
<h2 style="color: #4caf50;">New Employee Added</h2>
<p><strong>Name:</strong> {{get . "employeeName" ""}}</p>
<p><strong>Role:</strong> {{get . "role" ""}}</p>
<p><strong>Username:</strong> {{get . "username" ""}}</p>
<p><strong>Salary:</strong> RS {{get . "salary" "0"}}</p>
<p><strong>Join Date:</strong> {{get . "joinDate" "Today"}}</p>`),
	},
	"salary-paid": {
		subject: func(d map[string]interface{}) string { return "Salary Paid - " + lookup(d, "employeeName", "") },
		body: mustTemplate("salary-paid", `
<h2 style="color: #4caf50;">Salary Payment Processed</h2>
<p><strong>Employee:</strong> {{get . "employeeName" ""}}</p>
<p><strong>Amount:</strong> RS {{get . "amount" "0"}}</p>
<p><strong>Month:</strong> {{get . "month" ""}}</p>
<p><strong>Paid By:</strong> {{get . "paidBy" "Owner"}}</p>
<p><strong>Date:</strong> {{get . "date" ""}}</p>`),
	},
	"credit-due": {
		subject: func(d map[string]interface{}) string { return "Credit Payment Due - " + lookup(d, "customerName", "") },
		body: mustTemplate("credit-due", `
<h2 style="color: #ff5722;">Credit Payment Due Soon</h2>
<p><strong>Customer:</strong> {{get . "customerName" ""}}</p>
<p><strong>Amount Due:</strong> RS {{get . "amountDue" "0"}}</p>
<p><strong>Due Date:</strong> {{get . "dueDate" ""}}</p>
<p style="color: #d32f2f;">Please follow up for payment.</p>`),
	},
}

var resetCodeTemplate = mustTemplate("reset-code", `
<h2 style="color: #0d6efd;">Password Reset</h2>
<p>Use this code to reset your password:</p>
<p style="font-size: 28px; letter-spacing: 6px;"><strong>{{get . "code" ""}}</strong></p>
<p>The code expires in 15 minutes. If you did not ask for a reset you can ignore this email.</p>`)

var resetDoneTemplate = mustTemplate("reset-done", `
<h2 style="color: #4caf50;">Password Changed</h2>
<p>The password for {{get . "shopName" "your shop"}} was changed on {{get . "date" ""}}.</p>
<p>All previous sessions have been signed out.</p>`)

// EmailService renders the fixed templates and hands them to a Mailer. A nil
// mailer means outbound email is not configured.
type EmailService struct {
	mailer Mailer
	log    *logrus.Entry
	now    Clock
}

func NewEmailService(mailer Mailer, log *logrus.Entry) *EmailService {
	return &EmailService{mailer: mailer, log: log, now: time.Now}
}

// SendTemplate renders templateType with data and sends it to to. Unknown
// templates and delivery failures are reported in the result, never raised.
func (s *EmailService) SendTemplate(to, templateType string, data map[string]interface{}) EmailResult {
	if to == "" {
		return EmailResult{Success: false, Message: "No email address"}
	}
	tpl, ok := emailTemplates[templateType]
	if !ok {
		s.log.Warnf("Unknown email template: %s", templateType)
		return EmailResult{Success: false, Message: "Unknown template"}
	}
	fields := map[string]interface{}{"date": s.now().Format("2006-01-02")}
	for k, v := range data {
		fields[k] = v
	}
	return s.deliver(to, tpl.subject(fields), tpl.body, fields)
}

func (s *EmailService) SendResetCode(to, shopName, code string) EmailResult {
	return s.deliver(to, shopName+" - Password Reset Code", resetCodeTemplate, map[string]interface{}{"code": code})
}

func (s *EmailService) SendResetConfirmation(to, shopName string) EmailResult {
	return s.deliver(to, shopName+" - Password Changed", resetDoneTemplate, map[string]interface{}{
		"shopName": shopName,
		"date":     s.now().Format("2006-01-02 15:04"),
	})
}

func (s *EmailService) deliver(to, subject string, body *template.Template, data map[string]interface{}) EmailResult {
	if s.mailer == nil {
		return EmailResult{Success: false, Message: "Email is not configured"}
	}
	var buf bytes.Buffer
	if err := body.Execute(&buf, data); err != nil {
		s.log.WithError(err).Error("Failed to render email")
		return EmailResult{Success: false, Message: err.Error()}
	}
	if err := s.mailer.Send(to, subject, buf.String()); err != nil {
		s.log.WithError(err).Errorf("Failed to send email to %s", to)
		return EmailResult{Success: false, Message: err.Error()}
	}
	s.log.Infof("Email sent to %s: %s", to, subject)
	return EmailResult{Success: true}
}
