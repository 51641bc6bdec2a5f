package inventory

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlert represents a stock level alert for a variant
type StockAlert struct {
	VariantID   string `json:"variant_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"min_stock"`
	AlertType   string `json:"alert_type"` // "low_stock", "out_of_stock"
	Reason      string `json:"reason,omitempty"`
}

// StockAlertNotifier delivers stock alerts to staff
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlertHandler raises an alert when a variant becomes low or out of
// stock. Recoveries to ok are ignored.
type StockAlertHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewStockAlertHandler creates a new handler for StockLevelChanged events
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockAlertHandler) WithNotifier(notifier StockAlertNotifier) *StockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockLevelChanged}
}

// Handle processes a StockLevelChangedEvent
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*inventory.StockLevelChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockLevelChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockLevelChanged, event.EventType())
	}

	if !changed.Status.NeedsAttention() {
		return nil
	}

	alertType := "low_stock"
	if changed.Status == inventory.StockStatusOut {
		alertType = "out_of_stock"
	}

	h.logger.Warn("stock level needs attention",
		zap.String("variant_id", changed.VariantID.String()),
		zap.String("sku", changed.SKU),
		zap.String("product_name", changed.ProductName),
		zap.String("previous_status", string(changed.PreviousStatus)),
		zap.String("status", string(changed.Status)),
		zap.Int("stock", changed.Stock),
		zap.Int("min_stock", changed.MinStock),
	)

	if h.notifier == nil {
		return nil
	}

	alert := StockAlert{
		VariantID:   changed.VariantID.String(),
		ProductID:   changed.ProductID.String(),
		ProductName: changed.ProductName,
		SKU:         changed.SKU,
		Stock:       changed.Stock,
		MinStock:    changed.MinStock,
		AlertType:   alertType,
		Reason:      changed.Reason,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// notification failure must not fail event handling
		h.logger.Error("failed to send stock alert notification",
			zap.String("variant_id", alert.VariantID),
			zap.Error(err),
		)
	}

	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)

// LoggingStockAlertNotifier is a notifier that only logs alerts
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("sku", alert.SKU),
		zap.String("product", alert.ProductName),
		zap.Int("stock", alert.Stock),
		zap.Int("min_stock", alert.MinStock),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
