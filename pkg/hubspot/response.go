package hubspot

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BatchItemError is a per-input error inside a batch (207 Multi-Status) response.
type BatchItemError struct {
	Status   string              `json:"status"`
	Category string              `json:"category"`
	Message  string              `json:"message"`
	Context  map[string][]string `json:"context,omitempty"`
}

// Property is a property definition as returned by the properties API.
type Property struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	Type        string           `json:"type"`
	FieldType   string           `json:"fieldType"`
	GroupName   string           `json:"groupName"`
	Description string           `json:"description"`
	Options     []PropertyOption `json:"options"`
	Archived    bool             `json:"archived"`
}

// BatchPropertiesResponse is returned by property batch read/create.
type BatchPropertiesResponse struct {
	Status    string           `json:"status"`
	Results   []Property       `json:"results"`
	NumErrors int              `json:"numErrors"`
	Errors    []BatchItemError `json:"errors,omitempty"`
}

// Object is a CRM object (deal, product, line item).
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Archived   bool              `json:"archived"`
}

// BatchObjectsResponse is returned by object batch-create.
type BatchObjectsResponse struct {
	Status    string           `json:"status"`
	Results   []Object         `json:"results"`
	NumErrors int              `json:"numErrors"`
	Errors    []BatchItemError `json:"errors,omitempty"`
}

// GraphQLError is a single entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLResponse is the raw collector GraphQL envelope.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// TieredProduct is a product node returned by the ProductsByTier query.
// Numeric fields are decoded as decimals because HubSpot may send either
// JSON numbers or strings for them.
type TieredProduct struct {
	ID              json.Number         `json:"hs_object_id"`
	Name            string              `json:"name"`
	DefaultQuantity decimal.NullDecimal `json:"default_quantity"`
	PriceUSD        decimal.NullDecimal `json:"hs_price_usd"`
	Tier            EnumValue           `json:"tier"`
}

// EnumValue decodes an enumeration property that HubSpot may return either as a
// bare string or as a {label, value} object.
type EnumValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *EnumValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = EnumValue(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*v = EnumValue(obj.Value)
	return nil
}

type productCollection struct {
	Items   []TieredProduct `json:"items"`
	HasMore bool            `json:"hasMore"`
	Offset  int             `json:"offset"`
}

type productsByTierData struct {
	CRM struct {
		ProductCollection productCollection `json:"product_collection"`
	} `json:"CRM"`
}
