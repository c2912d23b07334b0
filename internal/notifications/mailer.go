package notifications

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/ghbuys/marketplace-backend/internal/vendors"
	"github.com/ghbuys/marketplace-backend/pkg/config"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
)

// Mailer renders vendor lifecycle emails and hands them to a Sender.
type Mailer struct {
	sender Sender
	cfg    config.EmailConfig
}

// NewMailer wires the mailer dependencies.
func NewMailer(sender Sender, cfg config.EmailConfig) (*Mailer, error) {
	if sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mail sender required")
	}
	return &Mailer{sender: sender, cfg: cfg}, nil
}

var _ vendors.Mailer = (*Mailer)(nil)

// VendorWelcome confirms a received application to the contact person, with
// the business email CC'd when it differs.
func (m *Mailer) VendorWelcome(ctx context.Context, vendor *models.Vendor, contact vendors.ContactPerson) error {
	body := fmt.Sprintf(`<h1>Welcome to GH Buys Marketplace</h1>
<p>Hello %s,</p>
<p>Thank you for registering <strong>%s</strong> with GH Buys Marketplace.</p>
<h3>What happens next?</h3>
<ul>
<li>Our team will review your application within 2-3 business days.</li>
<li>We may contact you to verify your business registration and banking details.</li>
<li>Once approved, you will receive login credentials for your vendor dashboard.</li>
</ul>
<h3>Your Store Details</h3>
<p><strong>Store Name:</strong> %s<br>
<strong>Location:</strong> %s, %s<br>
<strong>Category:</strong> %s</p>
<p>Need help? Contact %s.</p>`,
		html.EscapeString(contact.FirstName),
		html.EscapeString(vendor.Name),
		html.EscapeString(vendor.Name),
		html.EscapeString(vendor.City),
		html.EscapeString(vendor.Region),
		html.EscapeString(vendor.PrimaryCategory),
		html.EscapeString(m.cfg.SupportAddress),
	)

	email := Email{
		To:      []string{contact.Email},
		Subject: "Welcome to GH Buys Marketplace - Application Received",
		HTML:    body,
	}
	if vendor.Email != contact.Email {
		email.CC = []string{vendor.Email}
	}
	return m.sender.Send(ctx, email)
}

// AdminVendorAlert notifies the platform team about a new application.
func (m *Mailer) AdminVendorAlert(ctx context.Context, vendor *models.Vendor) error {
	registration := ""
	if vendor.BusinessRegistration != nil {
		registration = *vendor.BusinessRegistration
	}
	body := fmt.Sprintf(`<h2>New Vendor Registration</h2>
<p><strong>Business Name:</strong> %s<br>
<strong>Email:</strong> %s<br>
<strong>Phone:</strong> %s<br>
<strong>Location:</strong> %s, %s<br>
<strong>Category:</strong> %s<br>
<strong>Registration Number:</strong> %s</p>`,
		html.EscapeString(vendor.Name),
		html.EscapeString(vendor.Email),
		html.EscapeString(vendor.Phone),
		html.EscapeString(vendor.City),
		html.EscapeString(vendor.Region),
		html.EscapeString(vendor.PrimaryCategory),
		html.EscapeString(registration),
	)
	return m.sender.Send(ctx, Email{
		To:      []string{m.cfg.AdminAddress},
		Subject: fmt.Sprintf("New Vendor Registration: %s", vendor.Name),
		HTML:    body,
	})
}

// VendorApproved delivers dashboard credentials to an approved vendor. The
// temp password is empty when an existing account was promoted.
func (m *Mailer) VendorApproved(ctx context.Context, vendor *models.Vendor, loginEmail, tempPassword string) error {
	credentials := fmt.Sprintf(`<p><strong>Dashboard:</strong> <a href="%s">%s</a><br>
<strong>Email:</strong> %s</p>`,
		html.EscapeString(m.cfg.DashboardURL),
		html.EscapeString(m.cfg.DashboardURL),
		html.EscapeString(loginEmail),
	)
	if tempPassword != "" {
		credentials += fmt.Sprintf(`<p><strong>Temporary Password:</strong> <code>%s</code><br>
<em>Please change your password after first login.</em></p>`,
			html.EscapeString(tempPassword),
		)
	}

	body := fmt.Sprintf(`<h1>Your vendor application is approved</h1>
<p>Great news! Your application for <strong>%s</strong> has been approved. You can now start selling on GH Buys Marketplace.</p>
%s
<h3>Getting Started</h3>
<ol>
<li>Log into your dashboard using the credentials above.</li>
<li>Complete your store profile.</li>
<li>Add your first products and set your delivery zones.</li>
</ol>
<p>Questions? Contact %s.</p>`,
		html.EscapeString(vendor.Name),
		credentials,
		html.EscapeString(m.cfg.SupportAddress),
	)
	return m.sender.Send(ctx, Email{
		To:      []string{vendor.Email},
		Subject: "Approved! Welcome to GH Buys Marketplace",
		HTML:    body,
	})
}

// VendorRejected asks the applicant for the missing information.
func (m *Mailer) VendorRejected(ctx context.Context, vendor *models.Vendor, notes string, requirements []string) error {
	reqList := "<p>Please see the notes below for specific requirements.</p>"
	if len(requirements) > 0 {
		var sb strings.Builder
		sb.WriteString("<ul>")
		for _, req := range requirements {
			sb.WriteString("<li>")
			sb.WriteString(html.EscapeString(req))
			sb.WriteString("</li>")
		}
		sb.WriteString("</ul>")
		reqList = sb.String()
	}

	body := fmt.Sprintf(`<h1>Application Update - Action Required</h1>
<p>After reviewing your application for <strong>%s</strong>, we need some additional information before we can approve your account.</p>
<h3>Additional Requirements</h3>
%s
<h3>Review Notes</h3>
<p>%s</p>
<p>Reply to this email with the updated information and our team will re-review your application within 2 business days.</p>
<p>Need help? Contact %s.</p>`,
		html.EscapeString(vendor.Name),
		reqList,
		html.EscapeString(notes),
		html.EscapeString(m.cfg.SupportAddress),
	)
	return m.sender.Send(ctx, Email{
		To:      []string{vendor.Email},
		Subject: "GH Buys Application - Additional Information Required",
		HTML:    body,
	})
}

// VendorSuspended informs the vendor that their account has been deactivated.
func (m *Mailer) VendorSuspended(ctx context.Context, vendor *models.Vendor, notes string) error {
	body := fmt.Sprintf(`<h1>Account Suspended</h1>
<p>Your GH Buys vendor account for <strong>%s</strong> has been temporarily suspended.</p>
<h3>Reason for Suspension</h3>
<p>%s</p>
<p>To appeal, contact %s and quote vendor ID %s.</p>`,
		html.EscapeString(vendor.Name),
		html.EscapeString(notes),
		html.EscapeString(m.cfg.SupportAddress),
		vendor.ID,
	)
	return m.sender.Send(ctx, Email{
		To:      []string{vendor.Email},
		Subject: "GH Buys Account Suspended - Action Required",
		HTML:    body,
	})
}
