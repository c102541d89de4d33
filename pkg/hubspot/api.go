package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// BatchReadProperties reads property definitions by name. HubSpot answers with
// 207 Multi-Status when some names do not exist; those are reported through
// NumErrors/Errors rather than as an error.
func (c *Client) BatchReadProperties(ctx context.Context, objectType string, names []string) (*BatchPropertiesResponse, error) {
	req := BatchReadPropertiesRequest{
		Archived: true,
		Inputs:   make([]PropertyName, 0, len(names)),
	}
	for _, n := range names {
		req.Inputs = append(req.Inputs, PropertyName{Name: n})
	}

	var resp BatchPropertiesResponse
	path := fmt.Sprintf("/crm/v3/properties/%s/batch/read", url.PathEscape(objectType))
	if err := c.doRequest(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchCreateProperties creates custom properties on an object type.
func (c *Client) BatchCreateProperties(ctx context.Context, objectType string, inputs []PropertyCreate) (*BatchPropertiesResponse, error) {
	var resp BatchPropertiesResponse
	path := fmt.Sprintf("/crm/v3/properties/%s/batch/create", url.PathEscape(objectType))
	if err := c.doRequest(ctx, http.MethodPost, path, BatchCreatePropertiesRequest{Inputs: inputs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchCreateProducts creates product records.
func (c *Client) BatchCreateProducts(ctx context.Context, inputs []ObjectInput) (*BatchObjectsResponse, error) {
	var resp BatchObjectsResponse
	if err := c.doRequest(ctx, http.MethodPost, "/crm/v3/objects/products/batch/create", BatchCreateObjectsRequest{Inputs: inputs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateLineItem creates a single line item for a product and associates it with a deal.
func (c *Client) CreateLineItem(ctx context.Context, productID, dealID string, quantity int64) (*Object, error) {
	req := ObjectInput{
		Properties: map[string]string{
			"hs_product_id": productID,
			"quantity":      fmt.Sprintf("%d", quantity),
		},
		Associations: []Association{
			{
				To: AssociationTarget{ID: dealID},
				Types: []AssociationType{
					{
						AssociationCategory: AssociationCategoryHubSpotDefined,
						AssociationTypeID:   AssociationLineItemToDeal,
					},
				},
			},
		},
	}

	var resp Object
	if err := c.doRequest(ctx, http.MethodPost, "/crm/v3/objects/line_items", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDeal reads a deal with the requested properties.
func (c *Client) GetDeal(ctx context.Context, dealID string, properties ...string) (*Object, error) {
	path := "/crm/v3/objects/deals/" + url.PathEscape(dealID)
	if len(properties) > 0 {
		path += "?properties=" + url.QueryEscape(strings.Join(properties, ","))
	}

	var resp Object
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateDeal patches deal properties and returns the updated deal.
func (c *Client) UpdateDeal(ctx context.Context, dealID string, properties map[string]string) (*Object, error) {
	var resp Object
	path := "/crm/v3/objects/deals/" + url.PathEscape(dealID)
	if err := c.doRequest(ctx, http.MethodPatch, path, ObjectUpdate{Properties: properties}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// productsByTierQuery selects every product with a tier set.
const productsByTierQuery = `
query ProductsByTier($limit: Int!, $offset: Int!) {
  CRM {
    product_collection(filter: {tier__null: false}, limit: $limit, offset: $offset) {
      items {
        hs_object_id
        name
        default_quantity
        hs_price_usd
        tier
      }
      hasMore
      offset
    }
  }
}
`

// maxProductPages bounds pagination in case the collection never reports hasMore=false.
const maxProductPages = 100

// ListTieredProducts runs the ProductsByTier GraphQL query and follows pages
// until HubSpot reports no more results.
func (c *Client) ListTieredProducts(ctx context.Context) ([]TieredProduct, error) {
	var all []TieredProduct
	offset := 0

	for page := 0; page < maxProductPages; page++ {
		var resp GraphQLResponse
		req := GraphQLRequest{
			OperationName: "ProductsByTier",
			Query:         productsByTierQuery,
			Variables:     map[string]any{"limit": c.config.PageSize, "offset": offset},
		}
		if err := c.doRequest(ctx, http.MethodPost, "/collector/graphql", req, &resp); err != nil {
			return nil, err
		}
		if len(resp.Errors) > 0 {
			return nil, &APIError{
				StatusCode: http.StatusOK,
				Category:   CategoryGraphQLExecution,
				Message:    resp.Errors[0].Message,
			}
		}

		var data productsByTierData
		if len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return nil, &APIError{
					StatusCode: http.StatusOK,
					Category:   CategoryInvalidResponse,
					Message:    "failed to decode graphql data: " + err.Error(),
				}
			}
		}
		coll := data.CRM.ProductCollection
		all = append(all, coll.Items...)

		if !coll.HasMore || len(coll.Items) == 0 || coll.Offset <= offset {
			return all, nil
		}
		offset = coll.Offset
	}

	log.Warn().
		Int("pages", maxProductPages).
		Int("products", len(all)).
		Msg("[HUBSPOT] product pagination cap reached, catalog truncated")
	return all, nil
}
