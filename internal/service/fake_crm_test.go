package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// fakeCRM is an in-memory stand-in for the HubSpot API.
type fakeCRM struct {
	mu sync.Mutex

	properties map[string]bool
	products   []hubspot.TieredProduct
	deals      map[string]string // id -> amount
	lineItems  []fakeLineItem
	nextID     int

	// failure injection
	readErr          error
	createPropsErr   error
	createProductErr error
	lineItemErr      map[string]error // product id -> error
	getDealErr       error
	updateDealErr    error
	racedProperties  []string // appear between the read and the create
	propBatchErrors  []hubspot.BatchItemError

	// call counters
	readCalls        int
	createPropCalls  int
	createProdCalls  int
	listCalls        int
	lineItemCalls    int
	updateDealCalls  int
	lastUpdateAmount string
}

type fakeLineItem struct {
	ID        string
	ProductID string
	DealID    string
	Quantity  int64
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		properties:  map[string]bool{},
		deals:       map[string]string{},
		lineItemErr: map[string]error{},
		nextID:      1000,
	}
}

func (f *fakeCRM) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *fakeCRM) BatchReadProperties(_ context.Context, _ string, names []string) (*hubspot.BatchPropertiesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	if f.readErr != nil {
		return nil, f.readErr
	}

	resp := &hubspot.BatchPropertiesResponse{Status: "COMPLETE"}
	for _, n := range names {
		if f.properties[n] {
			resp.Results = append(resp.Results, hubspot.Property{Name: n})
			continue
		}
		resp.NumErrors++
		resp.Errors = append(resp.Errors, hubspot.BatchItemError{
			Status:   "error",
			Category: hubspot.CategoryObjectNotFound,
			Message:  fmt.Sprintf("Unable to find property %s", n),
			Context:  map[string][]string{"name": {n}},
		})
	}
	return resp, nil
}

func (f *fakeCRM) BatchCreateProperties(_ context.Context, _ string, inputs []hubspot.PropertyCreate) (*hubspot.BatchPropertiesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createPropCalls++
	if f.createPropsErr != nil {
		return nil, f.createPropsErr
	}
	for _, name := range f.racedProperties {
		f.properties[name] = true
	}

	resp := &hubspot.BatchPropertiesResponse{Status: "COMPLETE"}
	for _, in := range inputs {
		if f.properties[in.Name] {
			resp.NumErrors++
			resp.Errors = append(resp.Errors, hubspot.BatchItemError{Category: hubspot.CategoryObjectExists, Message: in.Name + " already exists"})
			continue
		}
		f.properties[in.Name] = true
		resp.Results = append(resp.Results, hubspot.Property{Name: in.Name, Label: in.Label, Type: in.Type})
	}
	resp.NumErrors += len(f.propBatchErrors)
	resp.Errors = append(resp.Errors, f.propBatchErrors...)
	return resp, nil
}

func (f *fakeCRM) BatchCreateProducts(_ context.Context, inputs []hubspot.ObjectInput) (*hubspot.BatchObjectsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createProdCalls++
	if f.createProductErr != nil {
		return nil, f.createProductErr
	}

	resp := &hubspot.BatchObjectsResponse{Status: "COMPLETE"}
	for _, in := range inputs {
		id := f.id()
		f.products = append(f.products, hubspot.TieredProduct{
			ID:              json.Number(id),
			Name:            in.Properties["name"],
			DefaultQuantity: nullDecimal(in.Properties["default_quantity"]),
			PriceUSD:        nullDecimal(in.Properties["price"]),
			Tier:            hubspot.EnumValue(in.Properties["tier"]),
		})
		resp.Results = append(resp.Results, hubspot.Object{ID: id, Properties: in.Properties})
	}
	return resp, nil
}

func (f *fakeCRM) ListTieredProducts(_ context.Context) ([]hubspot.TieredProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]hubspot.TieredProduct, 0, len(f.products))
	for _, p := range f.products {
		if p.Tier != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCRM) CreateLineItem(_ context.Context, productID, dealID string, quantity int64) (*hubspot.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineItemCalls++
	if err := f.lineItemErr[productID]; err != nil {
		return nil, err
	}
	li := fakeLineItem{ID: f.id(), ProductID: productID, DealID: dealID, Quantity: quantity}
	f.lineItems = append(f.lineItems, li)
	return &hubspot.Object{ID: li.ID, Properties: map[string]string{"hs_product_id": productID}}, nil
}

func (f *fakeCRM) GetDeal(_ context.Context, dealID string, _ ...string) (*hubspot.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getDealErr != nil {
		return nil, f.getDealErr
	}
	amount, ok := f.deals[dealID]
	if !ok {
		return nil, &hubspot.APIError{StatusCode: http.StatusNotFound, Category: hubspot.CategoryObjectNotFound, Message: "deal not found"}
	}
	return &hubspot.Object{ID: dealID, Properties: map[string]string{"amount": amount}}, nil
}

func (f *fakeCRM) UpdateDeal(_ context.Context, dealID string, properties map[string]string) (*hubspot.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateDealCalls++
	if f.updateDealErr != nil {
		return nil, f.updateDealErr
	}
	f.deals[dealID] = properties["amount"]
	f.lastUpdateAmount = properties["amount"]
	return &hubspot.Object{ID: dealID, Properties: map[string]string{"amount": properties["amount"]}, UpdatedAt: time.Now()}, nil
}

func nullDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
