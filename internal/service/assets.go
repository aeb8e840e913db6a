package service

import (
	"context"
	"fmt"

	"github.com/fleetops/depot/internal/store"
)

// Assets lists the persisted fleet roster.
func (s *Service) Assets(ctx context.Context) ([]store.Asset, error) {
	return s.store.ListAssets(ctx)
}

// AssetCertificates returns the certificates of the asset with the given
// serial number.
func (s *Service) AssetCertificates(ctx context.Context, serialNo string) ([]store.Certificate, error) {
	asset, err := s.store.GetAssetBySerial(ctx, serialNo)
	if err != nil {
		return nil, fmt.Errorf("lookup asset %s: %w", serialNo, err)
	}
	return s.store.ListAssetCertificates(ctx, asset.ID)
}

// SetAssetCertificates replaces the full certificate set of one asset.
func (s *Service) SetAssetCertificates(ctx context.Context, serialNo string, certs []store.Certificate) error {
	asset, err := s.store.GetAssetBySerial(ctx, serialNo)
	if err != nil {
		return fmt.Errorf("lookup asset %s: %w", serialNo, err)
	}
	if err := s.store.ReplaceCertificates(ctx, asset.ID, certs); err != nil {
		return err
	}
	s.logger.Info("certificates replaced", "serialNo", serialNo, "count", len(certs))
	return nil
}
