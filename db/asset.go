package db

import (
	"bullion/asset"
	"bullion/util"
)

// SaveMetadata replaces the stored asset metadata snapshot. The snapshot
// is whatever the ledger reported, never a locally computed document.
func (s *Store) SaveMetadata(m *asset.Metadata) error {
	const query = "INSERT INTO `asset_metadata` (`id`, `commodity_type`, `unit`, `total_quantity`, `storage_location`, `certification_hash`, `created_at`, `updated_at`) VALUES (1, ?, ?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `commodity_type` = VALUES(`commodity_type`), `unit` = VALUES(`unit`), `total_quantity` = VALUES(`total_quantity`), `storage_location` = VALUES(`storage_location`), `certification_hash` = VALUES(`certification_hash`), `created_at` = VALUES(`created_at`), `updated_at` = VALUES(`updated_at`)"

	_, err := s.db.Exec(query,
		m.CommodityType,
		m.Unit,
		util.BigIntToStr(m.TotalQuantity),
		m.StorageLocation,
		m.CertificationHash,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

// GetMetadata returns the stored snapshot, or nil when none was mirrored.
func (s *Store) GetMetadata() (*asset.Metadata, error) {
	const query = "SELECT `commodity_type`, `unit`, `total_quantity`, `storage_location`, `certification_hash`, `created_at`, `updated_at` FROM `asset_metadata` WHERE `id` = 1 LIMIT 1"
	rows, err := s.wrappedQuery(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	var m asset.Metadata
	quantityStr := ""

	err = rows.Scan(
		&m.CommodityType,
		&m.Unit,
		&quantityStr,
		&m.StorageLocation,
		&m.CertificationHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.TotalQuantity, err = util.StrToBigInt(quantityStr)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
