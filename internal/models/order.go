package models

// Order statuses as stored by the storefront.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// FieldPlaceholder substitutes missing order/customer fields in notifications.
const FieldPlaceholder = "N/A"

// OrderItem is a single line item of an order.
type OrderItem struct {
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Variation string  `bson:"variation,omitempty" json:"variation,omitempty"`
	Price     float64 `bson:"price" json:"price"`
}

// Order is a read-only projection of an order record. Notification builders
// never mutate or persist it. CreatedAt is an ISO-8601 (RFC 3339) UTC string,
// which orders lexicographically and is compared as a string by the cleanup
// filter.
type Order struct {
	ID            string      `bson:"_id" json:"id"`
	CustomerName  string      `bson:"customer_name" json:"customer_name"`
	CustomerEmail string      `bson:"customer_email" json:"customer_email"`
	CustomerPhone string      `bson:"customer_phone" json:"customer_phone"`
	TotalAmount   float64     `bson:"total_amount" json:"total_amount"`
	Items         []OrderItem `bson:"items" json:"items"`
	Status        string      `bson:"status" json:"status"`
	Remark        string      `bson:"remark,omitempty" json:"remark,omitempty"`
	CreatedAt     string      `bson:"created_at" json:"created_at"`
}

// WithDefaults returns a copy with absent fields replaced by neutral
// placeholders. Malformed input never fails a notification build; it only
// degrades to placeholder text.
func (o Order) WithDefaults() Order {
	if o.ID == "" {
		o.ID = FieldPlaceholder
	}
	if o.CustomerName == "" {
		o.CustomerName = FieldPlaceholder
	}
	if o.CustomerEmail == "" {
		o.CustomerEmail = FieldPlaceholder
	}
	if o.CustomerPhone == "" {
		o.CustomerPhone = FieldPlaceholder
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
	return o
}

// WithDefaults fills in the item defaults used by the notification formatter.
func (i OrderItem) WithDefaults() OrderItem {
	if i.Name == "" {
		i.Name = "Unknown"
	}
	if i.Quantity <= 0 {
		i.Quantity = 1
	}
	return i
}
