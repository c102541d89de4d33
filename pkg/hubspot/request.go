package hubspot

// Object type ids and association ids used by this client.
const (
	ObjectTypeProducts = "0-7"

	AssociationCategoryHubSpotDefined = "HUBSPOT_DEFINED"
	AssociationLineItemToDeal         = 20
)

// PropertyName identifies a property in batch read requests.
type PropertyName struct {
	Name string `json:"name"`
}

// BatchReadPropertiesRequest represents a property batch-read request.
type BatchReadPropertiesRequest struct {
	Archived bool           `json:"archived"`
	Inputs   []PropertyName `json:"inputs"`
}

// PropertyOption is one option of an enumeration property.
type PropertyOption struct {
	Label        string `json:"label"`
	Value        string `json:"value"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
	Hidden       bool   `json:"hidden,omitempty"`
}

// PropertyCreate describes a custom property to create.
type PropertyCreate struct {
	Name           string           `json:"name"`
	Label          string           `json:"label"`
	Type           string           `json:"type"`      // number, enumeration, string...
	FieldType      string           `json:"fieldType"` // number, select, text...
	GroupName      string           `json:"groupName"`
	Description    string           `json:"description,omitempty"`
	DisplayOrder   int              `json:"displayOrder,omitempty"`
	Hidden         bool             `json:"hidden"`
	HasUniqueValue bool             `json:"hasUniqueValue"`
	FormField      bool             `json:"formField"`
	Options        []PropertyOption `json:"options"`
}

// BatchCreatePropertiesRequest represents a property batch-create request.
type BatchCreatePropertiesRequest struct {
	Inputs []PropertyCreate `json:"inputs"`
}

// AssociationType is the typed half of an association definition.
type AssociationType struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

// AssociationTarget identifies the record an association points to.
type AssociationTarget struct {
	ID string `json:"id"`
}

// Association links a new record to an existing one.
type Association struct {
	To    AssociationTarget `json:"to"`
	Types []AssociationType `json:"types"`
}

// ObjectInput is the body for creating a single CRM object.
type ObjectInput struct {
	Properties   map[string]string `json:"properties"`
	Associations []Association     `json:"associations,omitempty"`
}

// BatchCreateObjectsRequest represents an object batch-create request.
type BatchCreateObjectsRequest struct {
	Inputs []ObjectInput `json:"inputs"`
}

// ObjectUpdate is the body for patching a CRM object.
type ObjectUpdate struct {
	Properties map[string]string `json:"properties"`
}

// GraphQLRequest is a collector GraphQL request.
type GraphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}
