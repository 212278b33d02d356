package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/dispatcher"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/event"
)

// Sender is the slice of the notifier the subscriber needs
type Sender interface {
	SendText(ctx context.Context, text string) error
}

// RegisterPaymentSubscriber wires payment notifications onto the dispatcher.
// Delivery is best effort; a failed send never affects the recorded payment.
func RegisterPaymentSubscriber(d dispatcher.Dispatcher, sender Sender, logger *zap.Logger) {
	d.SubscribeNamed(event.TypePaymentRecorded, "lark-payment-notifier", func(ctx context.Context, evt event.Event) error {
		recorded, ok := evt.(event.PaymentRecorded)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", evt.EventType())
		}

		text := formatPaymentMessage(recorded)
		if err := sender.SendText(ctx, text); err != nil {
			logger.Warn("Payment notification not delivered",
				zap.String("voucher_number", recorded.VoucherNumber),
				zap.Error(err))
			return err
		}
		return nil
	})
}

func formatPaymentMessage(evt event.PaymentRecorded) string {
	if evt.Status == entity.PaymentStatusPaid {
		return fmt.Sprintf("Payment recorded: %s (%s) paid in full, total %s",
			evt.VoucherNumber, evt.PartyName, evt.TotalPaid.StringFixed(2))
	}
	return fmt.Sprintf("Payment recorded: %s (%s) paid %s, balance due %s",
		evt.VoucherNumber, evt.PartyName, evt.TotalPaid.StringFixed(2), evt.BalanceDue.StringFixed(2))
}
