package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// CheckOrderStatus implements check_order_status.
type CheckOrderStatus struct {
	base
	catalog Catalog
}

// NewCheckOrderStatus constructs the order tracking tool.
func NewCheckOrderStatus(c Catalog, logger *zap.Logger) *CheckOrderStatus {
	schema := Schema{
		Name:        domain.ToolCheckOrderStatus,
		Description: "Look up the status of an order.",
		Params: []ParamSpec{
			{Name: "orderNumber", Type: "string", Description: "Order number in the form PS-XXXX-XXXXX", Required: true, label: "order number", example: "PS-2024-78542"},
		},
	}
	return &CheckOrderStatus{base: newBase(schema, logger), catalog: c}
}

// Execute reports the order status.
func (t *CheckOrderStatus) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	orderNumber := strings.ToUpper(params.get("orderNumber"))

	order, ok, err := t.catalog.FindOrder(ctx, orderNumber)
	if err != nil {
		return t.unavailable(err)
	}
	if !ok {
		return t.notFound(ctx, orderNumber)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Order Status: %s\n\n", order.OrderNumber)
	fmt.Fprintf(&sb, "**Status:** %s\n\n", capitalize(string(order.Status)))
	sb.WriteString("### Items Ordered\n")
	for _, item := range order.Items {
		fmt.Fprintf(&sb, "- %s (%s) x%d - %s\n", item.Name, item.PartNumber, item.Quantity, money(item.Price))
	}
	fmt.Fprintf(&sb, "\n**Order Total:** %s", money(order.Total()))
	if order.TrackingNumber != "" {
		fmt.Fprintf(&sb, "\n\n**Tracking Number:** %s", order.TrackingNumber)
	}
	if order.EstimatedDelivery != "" {
		fmt.Fprintf(&sb, "\n**Estimated Delivery:** %s", order.EstimatedDelivery)
	}
	return Result{Success: true, Data: order, Message: sb.String()}
}

func (t *CheckOrderStatus) notFound(ctx context.Context, orderNumber string) Result {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order %q was not found in our system.\n\n", orderNumber)
	sb.WriteString("Please verify your order number:\n")
	sb.WriteString("- The format is PS-XXXX-XXXXX (for example PS-2024-78542)\n")
	sb.WriteString("- It appears in your order confirmation email and on your receipt\n")

	orders, err := t.catalog.Orders(ctx)
	if err != nil {
		t.logger.Warn("loading sample orders failed", zap.Error(err))
	}
	if len(orders) > 0 {
		sb.WriteString("\nSample orders:\n")
		for _, o := range orders {
			fmt.Fprintf(&sb, "- %s (%s)\n", o.OrderNumber, capitalize(string(o.Status)))
		}
	}
	sb.WriteString("\nIf you can't find your order number, please contact PartSelect customer service.")
	return Result{Success: false, Message: sb.String()}
}
