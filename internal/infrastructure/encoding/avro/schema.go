package avro

// OrderPlacedSchema is the Avro schema for the order event published to the
// in-store terminal topic. All fields are written by our own producer, so
// none of them need nullable unions.
const OrderPlacedSchema = `{
	"type": "record",
	"name": "OrderPlaced",
	"namespace": "com.xococoffee.storefront",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "customer_name", "type": "string"},
		{"name": "payment_method", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "subtotal_cents", "type": "long"},
		{"name": "tip_cents", "type": "long"},
		{"name": "total_cents", "type": "long"},
		{"name": "currency", "type": "string"},
		{"name": "summary", "type": "string"},
		{"name": "created_at", "type": "string"},
		{"name": "lines", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "OrderLine",
				"fields": [
					{"name": "name", "type": "string"},
					{"name": "quantity", "type": "long"},
					{"name": "unit_price_cents", "type": "long"},
					{"name": "note", "type": "string", "default": ""}
				]
			}
		}}
	]
}`
