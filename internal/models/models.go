package models

// All monetary amounts are stored in paise (int64 minor units).

type Product struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"not null"                 json:"name"`
	Description string        `gorm:"not null"                 json:"description"`
	Seller      string        `json:"seller"`
	Image       string        `json:"image"`
	Price       int64         `gorm:"not null"                 json:"price"`
	CuttedPrice int64         `json:"cutted_price"`
	Stock       uint          `json:"stock"`
	Units       []UnitVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"units"`
}

// UnitVariant is a named purchasing unit ("kg", "box") with its own price and
// quantity bounds. At most one variant per product carries IsDefault.
type UnitVariant struct {
	ID          uint   `gorm:"primaryKey"     json:"id"`
	ProductID   uint   `gorm:"index;not null" json:"product_id"`
	Name        string `gorm:"not null"       json:"name"`
	Price       int64  `gorm:"not null"       json:"price"`
	CuttedPrice int64  `json:"cutted_price"`
	MinQty      int64  `gorm:"default:1"      json:"min_qty"`
	MaxQty      int64  `json:"max_qty"` // 0 means unbounded
	Increment   int64  `gorm:"default:1"      json:"increment"`
	IsDefault   bool   `gorm:"default:false"  json:"is_default"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// CartItem is one product+unit+quantity line. The product and unit fields are
// snapshots taken from fresh product data at the time of the last mutation.
type CartItem struct {
	ID        uint  `gorm:"primaryKey"                             json:"id"`
	UserID    uint  `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uint  `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Quantity  int64 `gorm:"default:1;check:quantity>0"             json:"quantity"`

	Name        string `json:"name"`
	Seller      string `json:"seller"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	CuttedPrice int64  `json:"cutted_price"`
	Stock       uint   `json:"stock"`

	UnitName      string `json:"unit_name"`
	UnitMinQty    int64  `json:"unit_min_qty"`
	UnitMaxQty    int64  `json:"unit_max_qty"`
	UnitIncrement int64  `json:"unit_increment"`
	UnitIsDefault bool   `json:"unit_is_default"`
}

const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
)

type Order struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	Status    string `gorm:"not null"       json:"status"`
	CreatedAt int64  `gorm:"not null"       json:"created_at"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`

	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`

	ItemsPrice    int64 `json:"items_price"`
	Discount      int64 `json:"discount"`
	TaxPrice      int64 `json:"tax_price"`
	ShippingPrice int64 `json:"shipping_price"`
	TotalPrice    int64 `json:"total_price"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID          uint   `gorm:"primaryKey"     json:"id"`
	OrderID     uint   `gorm:"index;not null" json:"order_id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	ProductID   uint   `gorm:"not null"       json:"product_id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	UnitName    string `json:"unit_name"`
	Quantity    int64  `gorm:"default:1;check:quantity>0" json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	CuttedPrice int64  `json:"cutted_price"`
	LineTotal   int64  `json:"line_total"`
}

const (
	QuoteStatusPending  = "pending"
	QuoteStatusApproved = "approved"
	QuoteStatusRejected = "rejected"
)

// Quote is a buyer-submitted request for pricing, reviewed by an admin.
type Quote struct {
	ID         uint        `gorm:"primaryKey"      json:"id"`
	Reference  string      `gorm:"unique;not null" json:"reference"`
	UserID     uint        `gorm:"index;not null"  json:"user_id"`
	Status     string      `gorm:"not null"        json:"status"`
	Message    string      `json:"message"`
	ReviewNote string      `json:"review_note"`
	CreatedAt  int64       `gorm:"not null"        json:"created_at"`
	Items      []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`
}

type QuoteItem struct {
	ID          uint   `gorm:"primaryKey"     json:"id"`
	QuoteID     uint   `gorm:"index;not null" json:"quote_id"`
	ProductID   uint   `gorm:"not null"       json:"product_id"`
	UnitName    string `json:"unit_name"`
	Quantity    int64  `gorm:"default:1;check:quantity>0" json:"quantity"`
	QuotedPrice int64  `json:"quoted_price"`
}
