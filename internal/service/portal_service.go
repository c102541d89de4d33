package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// PortalCRM is the subset of the CRM API used to check and provision a portal.
type PortalCRM interface {
	BatchReadProperties(ctx context.Context, objectType string, names []string) (*hubspot.BatchPropertiesResponse, error)
	BatchCreateProperties(ctx context.Context, objectType string, inputs []hubspot.PropertyCreate) (*hubspot.BatchPropertiesResponse, error)
	BatchCreateProducts(ctx context.Context, inputs []hubspot.ObjectInput) (*hubspot.BatchObjectsResponse, error)
}

// PortalService checks whether the portal carries the custom product
// properties the bundle feature needs, and creates them plus a seed catalog
// when they are missing.
type PortalService struct {
	crm     PortalCRM
	catalog *CatalogService
}

// NewPortalService constructs a PortalService.
func NewPortalService(crm PortalCRM, catalog *CatalogService) *PortalService {
	return &PortalService{crm: crm, catalog: catalog}
}

// Status batch-reads the required properties. A failed call is never folded
// into "unconfigured": the state is unknown and the error is returned.
func (s *PortalService) Status(ctx context.Context) (models.PortalStatus, error) {
	resp, err := s.crm.BatchReadProperties(ctx, hubspot.ObjectTypeProducts, RequiredProperties)
	if err != nil {
		log.Error().Err(err).Msg("failed to read portal properties")
		return models.PortalStatus{State: models.PortalStateUnknown}, classifyRemoteErr("read portal properties", err)
	}

	found := make(map[string]bool, len(resp.Results))
	for _, p := range resp.Results {
		found[p.Name] = true
	}

	var missing []string
	for _, name := range RequiredProperties {
		if !found[name] {
			missing = append(missing, name)
		}
	}

	if resp.NumErrors == 0 && len(missing) == 0 {
		return models.PortalStatus{State: models.PortalStateConfigured}, nil
	}

	log.Info().Int("num_errors", resp.NumErrors).Strs("missing", missing).Msg("portal is not configured")
	return models.PortalStatus{State: models.PortalStateUnconfigured, MissingProperties: missing}, nil
}

// IsConfigured reports whether both required properties exist.
func (s *PortalService) IsConfigured(ctx context.Context) (bool, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.Configured(), nil
}

// Provision creates whatever is missing: first the custom properties, then
// the seed products whose names are not already in the tiered catalog.
// Steps are not transactional; anything created before a failure stays, and
// running Provision again only creates what is still absent.
func (s *PortalService) Provision(ctx context.Context) (*models.ProvisionResult, error) {
	result := &models.ProvisionResult{
		CreatedProperties: []string{},
		SkippedProperties: []string{},
		CreatedProducts:   []string{},
		SkippedProducts:   []string{},
	}

	if err := s.provisionProperties(ctx, result); err != nil {
		return result, err
	}
	if err := s.provisionProducts(ctx, result); err != nil {
		return result, err
	}

	s.catalog.Invalidate(ctx)

	log.Info().
		Strs("created_properties", result.CreatedProperties).
		Int("created_products", len(result.CreatedProducts)).
		Int("skipped_products", len(result.SkippedProducts)).
		Msg("portal provisioned")
	return result, nil
}

func (s *PortalService) provisionProperties(ctx context.Context, result *models.ProvisionResult) error {
	status, err := s.Status(ctx)
	if err != nil {
		return err
	}

	missing := make(map[string]bool, len(status.MissingProperties))
	for _, name := range status.MissingProperties {
		missing[name] = true
	}

	var inputs []hubspot.PropertyCreate
	for _, name := range RequiredProperties {
		if missing[name] {
			inputs = append(inputs, propertyDefinitions[name])
		} else {
			result.SkippedProperties = append(result.SkippedProperties, name)
		}
	}
	if len(inputs) == 0 {
		return nil
	}

	resp, err := s.crm.BatchCreateProperties(ctx, hubspot.ObjectTypeProducts, inputs)
	if err != nil {
		var apiErr *hubspot.APIError
		if errors.As(err, &apiErr) && apiErr.IsDuplicate() {
			// created concurrently since the status check
			log.Warn().Err(err).Msg("product properties already exist, skipping")
			for _, in := range inputs {
				result.SkippedProperties = append(result.SkippedProperties, in.Name)
			}
			sort.Strings(result.SkippedProperties)
			return nil
		}
		log.Error().Err(err).Msg("failed to create product properties")
		return classifyRemoteErr("create product properties", err)
	}

	created := make(map[string]bool, len(resp.Results))
	for _, p := range resp.Results {
		created[p.Name] = true
		result.CreatedProperties = append(result.CreatedProperties, p.Name)
	}
	sort.Strings(result.CreatedProperties)

	var failed []hubspot.BatchItemError
	for _, e := range resp.Errors {
		if !e.IsDuplicate() {
			failed = append(failed, e)
		}
	}
	if len(failed) > 0 {
		log.Error().Int("num_errors", resp.NumErrors).Msg("product property batch create reported errors")
		return rejectedBatch("create product properties", failed)
	}
	if resp.NumErrors > 0 && len(resp.Errors) == 0 {
		log.Error().Int("num_errors", resp.NumErrors).Msg("product property batch create reported errors")
		return rejectedBatch("create product properties", nil)
	}
	for _, in := range inputs {
		if !created[in.Name] {
			result.SkippedProperties = append(result.SkippedProperties, in.Name)
		}
	}
	sort.Strings(result.SkippedProperties)
	return nil
}

func (s *PortalService) provisionProducts(ctx context.Context, result *models.ProvisionResult) error {
	existing, err := s.catalog.Refresh(ctx)
	if err != nil {
		return err
	}

	names := make(map[string]bool, len(existing))
	for _, it := range existing {
		names[it.Name] = true
	}

	var inputs []hubspot.ObjectInput
	for _, p := range seedCatalog {
		if names[p.Name] {
			result.SkippedProducts = append(result.SkippedProducts, p.Name)
			continue
		}
		inputs = append(inputs, p.input())
	}
	if len(inputs) == 0 {
		return nil
	}

	resp, err := s.crm.BatchCreateProducts(ctx, inputs)
	if err != nil {
		log.Error().Err(err).Msg("failed to create seed products")
		return classifyRemoteErr("create seed products", err)
	}
	for _, obj := range resp.Results {
		result.CreatedProducts = append(result.CreatedProducts, obj.Properties["name"])
	}
	if resp.NumErrors > 0 {
		log.Error().Int("num_errors", resp.NumErrors).Msg("seed product batch create reported errors")
		return rejectedBatch("create seed products", resp.Errors)
	}
	return nil
}
