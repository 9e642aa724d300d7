package services

import (
	"fmt"
	"strings"
	"time"

	"shopease/internal/domain"
	"shopease/internal/repos"

	"github.com/google/uuid"
)

// NotifyService appends to the email log, the stand-in for a real mail
// transport.
type NotifyService struct {
	Emails *repos.EmailRepo
}

func NewNotifyService(emails *repos.EmailRepo) *NotifyService { return &NotifyService{Emails: emails} }

func (s *NotifyService) Send(to, subject, body string) error {
	return s.Emails.Append(domain.EmailRecord{
		ID:        "email_" + uuid.NewString(),
		To:        to,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UnixMilli(),
	})
}

// OrderConfirmation queues the itemized confirmation for a finalized order.
func (s *NotifyService) OrderConfirmation(to string, o *domain.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order %s\n\nItems:\n", o.ID)
	for _, it := range o.Items {
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		fmt.Fprintf(&b, "- %s x%d — ₹%s\n", it.Title, qty, Rupees(it.Price))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%s", Rupees(o.Total))
	return s.Send(to, "Order confirmation "+o.ID, b.String())
}

// Rupees renders paise as a decimal rupee string without floating point.
func Rupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s%d.%02d", sign, paise/100, paise%100)
}
