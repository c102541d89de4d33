package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/internal/utils"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// DealCRM is the subset of the CRM API used to attach a bundle to a deal.
type DealCRM interface {
	CreateLineItem(ctx context.Context, productID, dealID string, quantity int64) (*hubspot.Object, error)
	GetDeal(ctx context.Context, dealID string, properties ...string) (*hubspot.Object, error)
	UpdateDeal(ctx context.Context, dealID string, properties map[string]string) (*hubspot.Object, error)
}

// BundleService creates line items for a bundle and adds its total to a deal.
type BundleService struct {
	crm            DealCRM
	maxConcurrency int
}

// NewBundleService constructs a BundleService. maxConcurrency bounds the
// number of line-item creates in flight.
func NewBundleService(crm DealCRM, maxConcurrency int) *BundleService {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &BundleService{crm: crm, maxConcurrency: maxConcurrency}
}

// BundleRequest is the input of SubmitBundle.
type BundleRequest struct {
	DealID string
	Items  []models.CatalogItem
	Total  decimal.Decimal
	// KnownAmount is the deal amount the caller last saw, if any. The amount
	// is always re-read before updating; a mismatch is only logged.
	KnownAmount *decimal.Decimal
}

// SubmitBundle creates one line item per item, concurrently, and once all of
// them exist sets the deal amount to its current value plus Total.
//
// When any create fails the deal is left untouched and the returned error
// wraps ErrPartialBatchFailure together with the first failure's kind. The
// result still lists every item's outcome, and created line items are not
// removed.
func (s *BundleService) SubmitBundle(ctx context.Context, req BundleRequest) (*models.BundleResult, error) {
	if req.DealID == "" {
		return nil, utils.ErrMissingDealID
	}
	if len(req.Items) == 0 {
		return nil, utils.ErrEmptyBundle
	}
	items := make([]models.CatalogItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = it.WithQuantity(it.SelectedQuantity)
	}
	req.Items = items
	if computed := ComputeTotal(req.Items); !computed.Equal(req.Total) {
		return nil, fmt.Errorf("total %s does not match items %s: %w", req.Total.StringFixed(2), computed.StringFixed(2), utils.ErrTotalMismatch)
	}

	lineItems, errs := s.createLineItems(ctx, req.DealID, req.Items)
	result := &models.BundleResult{
		DealID:    req.DealID,
		Total:     req.Total,
		LineItems: lineItems,
	}

	var firstErr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		result.Failed++
		if firstErr == nil {
			firstErr = fmt.Errorf("product %s: %w", req.Items[i].ID, err)
		}
	}
	if result.Failed > 0 {
		log.Error().
			Str("deal_id", req.DealID).
			Int("failed", result.Failed).
			Int("total", len(req.Items)).
			Msg("bundle line items partially failed, deal not updated")
		return result, fmt.Errorf("%d of %d line items failed: %w: %w", result.Failed, len(req.Items), utils.ErrPartialBatchFailure, firstErr)
	}

	deal, err := s.addToDealAmount(ctx, req)
	if err != nil {
		return result, err
	}
	result.Deal = deal

	log.Info().
		Str("deal_id", req.DealID).
		Int("line_items", len(req.Items)).
		Str("total", req.Total.StringFixed(2)).
		Str("amount", deal.Amount.StringFixed(2)).
		Msg("bundle submitted")
	return result, nil
}

// createLineItems fires every create and waits for all of them. Failures are
// recorded per item and never cancel the remaining creates.
func (s *BundleService) createLineItems(ctx context.Context, dealID string, items []models.CatalogItem) ([]models.LineItemResult, []error) {
	results := make([]models.LineItemResult, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, it := range items {
		g.Go(func() error {
			res := models.LineItemResult{ProductID: it.ID, Quantity: it.SelectedQuantity}
			li, err := s.crm.CreateLineItem(ctx, it.ID, dealID, it.SelectedQuantity)
			if err != nil {
				cerr := classifyRemoteErr("create line item", err)
				log.Warn().Err(err).Str("deal_id", dealID).Str("product_id", it.ID).Msg("line item create failed")
				res.Error = err.Error()
				res.ErrorCode = errorCode(cerr)
				errs[i] = cerr
			} else {
				res.LineItemID = li.ID
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

func (s *BundleService) addToDealAmount(ctx context.Context, req BundleRequest) (*models.Deal, error) {
	current, err := s.crm.GetDeal(ctx, req.DealID, "amount")
	if err != nil {
		log.Error().Err(err).Str("deal_id", req.DealID).Msg("failed to read deal")
		return nil, classifyRemoteErr("read deal", err)
	}
	amount, err := parseAmount(current.Properties["amount"])
	if err != nil {
		return nil, fmt.Errorf("deal %s: %w: %w", req.DealID, utils.ErrRemoteRejected, err)
	}

	if req.KnownAmount != nil && !req.KnownAmount.Equal(amount) {
		log.Warn().
			Str("deal_id", req.DealID).
			Str("known_amount", req.KnownAmount.StringFixed(2)).
			Str("current_amount", amount.StringFixed(2)).
			Msg("deal amount changed since it was read by the caller")
	}

	newAmount := amount.Add(req.Total)
	updated, err := s.crm.UpdateDeal(ctx, req.DealID, map[string]string{"amount": newAmount.StringFixed(2)})
	if err != nil {
		log.Error().Err(err).Str("deal_id", req.DealID).Msg("failed to update deal amount")
		return nil, classifyRemoteErr("update deal", err)
	}

	deal := &models.Deal{ID: updated.ID, Amount: newAmount, UpdatedAt: updated.UpdatedAt}
	if deal.ID == "" {
		deal.ID = req.DealID
	}
	if raw, ok := updated.Properties["amount"]; ok && raw != "" {
		if a, err := parseAmount(raw); err == nil {
			deal.Amount = a
		}
	}
	return deal, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New("invalid deal amount " + raw)
	}
	return d, nil
}
