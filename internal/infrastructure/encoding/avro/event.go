package avro

// OrderPlaced is the decoded terminal event, one per submitted order.
type OrderPlaced struct {
	OrderID       string
	CustomerName  string
	PaymentMethod string
	Status        string
	SubtotalCents int64
	TipCents      int64
	TotalCents    int64
	Currency      string
	Summary       string
	CreatedAt     string
	Lines         []OrderLine
}

// OrderLine is one line of the placed order as the terminal displays it.
type OrderLine struct {
	Name           string
	Quantity       int64
	UnitPriceCents int64
	Note           string
}
