package service

import (
	"strconv"

	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// Custom product properties the bundle feature relies on.
const (
	PropertyDefaultQuantity = "default_quantity"
	PropertyTier            = "tier"
)

// RequiredProperties lists the property names checked by PortalService.Status.
var RequiredProperties = []string{PropertyDefaultQuantity, PropertyTier}

var propertyDefinitions = map[string]hubspot.PropertyCreate{
	PropertyDefaultQuantity: {
		Name:         PropertyDefaultQuantity,
		Label:        "Default Quantity",
		Type:         "number",
		FieldType:    "number",
		GroupName:    "productinformation",
		Description:  `The default quantity for a given product when included in a "package".`,
		DisplayOrder: -1,
		FormField:    true,
		Options:      []hubspot.PropertyOption{},
	},
	PropertyTier: {
		Name:        PropertyTier,
		Label:       "Tier",
		Type:        "enumeration",
		FieldType:   "select",
		GroupName:   "productinformation",
		Description: `Tier of the "package" which the product belongs to.`,
		Options: []hubspot.PropertyOption{
			{Label: "Standard", Value: string(models.TierStandard)},
			{Label: "Enterprise", Value: string(models.TierEnterprise)},
		},
	},
}

type seedProduct struct {
	Name            string
	Price           string
	DefaultQuantity int64
	Tier            models.Tier
}

// seedCatalog is the starter catalog created on a fresh portal.
var seedCatalog = []seedProduct{
	{Name: "[Standard] Core Offering", Price: "5000.00", DefaultQuantity: 1, Tier: models.TierStandard},
	{Name: "[Standard] Implementation", Price: "3000.00", DefaultQuantity: 1, Tier: models.TierStandard},
	{Name: "[Standard] Add-on A", Price: "10.00", DefaultQuantity: 500, Tier: models.TierStandard},
	{Name: "[Enterprise] Core Offering", Price: "8000.00", DefaultQuantity: 1, Tier: models.TierEnterprise},
	{Name: "[Enterprise] Implementation", Price: "5000.00", DefaultQuantity: 1, Tier: models.TierEnterprise},
	{Name: "[Enterprise] Add-on A", Price: "7.00", DefaultQuantity: 1000, Tier: models.TierEnterprise},
	{Name: "[Enterprise] Add-on B", Price: "10.00", DefaultQuantity: 250, Tier: models.TierEnterprise},
}

func (p seedProduct) input() hubspot.ObjectInput {
	return hubspot.ObjectInput{
		Properties: map[string]string{
			"name":                  p.Name,
			"price":                 p.Price,
			PropertyDefaultQuantity: strconv.FormatInt(p.DefaultQuantity, 10),
			PropertyTier:            string(p.Tier),
		},
	}
}
