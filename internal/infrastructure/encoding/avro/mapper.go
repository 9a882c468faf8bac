package avro

import (
	"fmt"
	"time"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
)

// OrderPlacedNative builds the goavro native value for one submission.
func OrderPlacedNative(req *order.Request, res *order.Result) map[string]interface{} {
	lines := make([]interface{}, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, map[string]interface{}{
			"name":             l.Name,
			"quantity":         int64(l.Quantity),
			"unit_price_cents": pricing.Cents(l.UnitPrice),
			"note":             l.Note,
		})
	}

	return map[string]interface{}{
		"order_id":       res.OrderID,
		"customer_name":  res.CustomerName,
		"payment_method": string(req.Method),
		"status":         res.Status,
		"subtotal_cents": pricing.Cents(req.Subtotal),
		"tip_cents":      pricing.Cents(req.Tip),
		"total_cents":    res.TotalCents,
		"currency":       res.Currency,
		"summary":        res.Summary,
		"created_at":     res.CreatedAt.UTC().Format(time.RFC3339),
		"lines":          lines,
	}
}

// OrderPlacedFromNative rebuilds the event from a decoded native value.
func OrderPlacedFromNative(native interface{}) (*OrderPlaced, error) {
	record, ok := native.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected avro native type %T", native)
	}

	event := &OrderPlaced{
		OrderID:       asString(record["order_id"]),
		CustomerName:  asString(record["customer_name"]),
		PaymentMethod: asString(record["payment_method"]),
		Status:        asString(record["status"]),
		SubtotalCents: asInt64(record["subtotal_cents"]),
		TipCents:      asInt64(record["tip_cents"]),
		TotalCents:    asInt64(record["total_cents"]),
		Currency:      asString(record["currency"]),
		Summary:       asString(record["summary"]),
		CreatedAt:     asString(record["created_at"]),
	}

	rawLines, _ := record["lines"].([]interface{})
	for _, raw := range rawLines {
		line, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		event.Lines = append(event.Lines, OrderLine{
			Name:           asString(line["name"]),
			Quantity:       asInt64(line["quantity"]),
			UnitPriceCents: asInt64(line["unit_price_cents"]),
			Note:           asString(line["note"]),
		})
	}
	return event, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
