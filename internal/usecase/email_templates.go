// File: internal/usecase/email_templates.go
package usecase

import (
	"fmt"

	"adobe-subscription-store/internal/domain/model"
)

func centsToDollars(c int64) string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}

// renderConfirmation builds the order confirmation. The body varies by
// activation type: pre-activated accounts ship credentials, self-activation
// upgrades the buyer's own Adobe account, redemption orders wait for a code.
func renderConfirmation(o *model.Order) (subject, html, text string) {
	subject = "Your order is confirmed - " + o.Description

	name := o.CustomerName
	if name == "" {
		name = "there"
	}

	var next string
	switch o.ActivationType {
	case model.ActivationPreActivated:
		next = "Your pre-activated Adobe account credentials will arrive in a separate email shortly."
	case model.ActivationSelf:
		target := o.AdobeEmail
		if target == "" {
			target = o.CustomerEmail
		}
		next = fmt.Sprintf("Your subscription will be applied to your Adobe account (%s) within a few hours. No further action is needed.", target)
	case model.ActivationRedemptionCode:
		next = "Your redemption code will be delivered to this address within a few hours, along with instructions for redeeming it on adobe.com."
	default:
		next = "We are preparing your order and will follow up with activation details."
	}

	var expiry string
	if o.ExpiryDate != nil {
		expiry = fmt.Sprintf("<li>Active until: %s</li>", o.ExpiryDate.Format("January 2, 2006"))
	}

	html = fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px">
<h2>Thanks for your purchase, %s!</h2>
<p>We received your payment and your order is confirmed.</p>
<ul>
<li>Plan: %s</li>
<li>Amount paid: %s</li>
<li>You saved: %s</li>
%s</ul>
<p>%s</p>
<p>Questions? Just reply to this email.</p>
</div>`, name, o.Description, centsToDollars(o.AmountCents), centsToDollars(o.SavingsCents), expiry, next)

	text = fmt.Sprintf("Thanks for your purchase, %s!\n\nPlan: %s\nAmount paid: %s\nYou saved: %s\n\n%s\n",
		name, o.Description, centsToDollars(o.AmountCents), centsToDollars(o.SavingsCents), next)
	return subject, html, text
}
