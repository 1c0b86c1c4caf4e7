package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentLedger keeps each order's single payment record in step with the
// order's total price.
type PaymentLedger struct {
	store Store
	log   *zap.Logger
}

func NewPaymentLedger(store Store, log *zap.Logger) *PaymentLedger {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentLedger{store: store, log: log}
}

// CreatePayment opens the payment record for an order, seeded with the
// order's current total.
func (pl *PaymentLedger) CreatePayment(ctx context.Context, orderID string, method PaymentMethod) (*Payment, error) {
	if !method.Valid() {
		return nil, validationf("invalid payment method %q", method)
	}
	var payment *Payment
	err := pl.store.InTx(ctx, func(ctx context.Context) error {
		order, err := pl.store.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load order %s: %w", orderID, err)
		}
		payment = &Payment{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			PaymentDate: time.Now().UTC(),
			Amount:      order.TotalPrice,
			Method:      method,
		}
		if err := pl.store.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// SyncAmount sets the order's payment amount to the order's total price.
// After any order-mutating transaction completes the two must be equal.
func (pl *PaymentLedger) SyncAmount(ctx context.Context, orderID string) error {
	err := pl.store.InTx(ctx, func(ctx context.Context) error {
		order, err := pl.store.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load order %s: %w", orderID, err)
		}
		payment, err := pl.store.GetPaymentByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load payment for order %s: %w", orderID, err)
		}
		if err := pl.store.SetPaymentAmount(ctx, payment.ID, order.TotalPrice); err != nil {
			return fmt.Errorf("sync payment amount: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	pl.log.Debug("payment amount synced", zap.String("order_id", orderID))
	return nil
}
