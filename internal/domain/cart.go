package domain

import "time"

type ItemType string

const (
	ItemTypeCard          ItemType = "card"
	ItemTypeTest          ItemType = "test"
	ItemTypeCourse        ItemType = "course"
	ItemTypeQualification ItemType = "qualification"
	ItemTypeOther         ItemType = "other"
)

// ParseItemType maps an upstream type string to a known item type.
// Anything unrecognised becomes ItemTypeOther.
func ParseItemType(s string) ItemType {
	switch ItemType(s) {
	case ItemTypeCard, ItemTypeTest, ItemTypeCourse, ItemTypeQualification:
		return ItemType(s)
	default:
		return ItemTypeOther
	}
}

// CartItem is a single service item in the cart. Price is in major units
// (pounds). Configuration holds the type-specific blob the item needs
// before it can be ordered.
type CartItem struct {
	ID            string         `bson:"item_id" json:"id"`
	Title         string         `bson:"title" json:"title"`
	Type          ItemType       `bson:"type" json:"type"`
	Price         float64        `bson:"price" json:"price"`
	Quantity      int            `bson:"quantity" json:"quantity"`
	Configuration map[string]any `bson:"configuration,omitempty" json:"configuration,omitempty"`
}

func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is the persisted shape of an in-progress cart.
type Cart struct {
	ID        string     `bson:"_id,omitempty"`
	CartID    string     `bson:"cart_id"`
	Items     []CartItem `bson:"items"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

type BillingInfo struct {
	Address        string `json:"address"`
	City           string `json:"city"`
	Postcode       string `json:"postcode"`
	Country        string `json:"country"`
	SameAsCustomer bool   `json:"sameAsCustomer"`
}
