package db

// Physical schema of the mirror. Balances and amounts are stored as
// base-10 strings since they carry unsigned 256-bit integer semantics.
var schemaStmts = []string{
	"CREATE TABLE IF NOT EXISTS `account` (" +
		"`address` CHAR(42) NOT NULL, " +
		"`balance` VARCHAR(80) NOT NULL DEFAULT '0', " +
		"`whitelisted` TINYINT(1) NOT NULL DEFAULT 0, " +
		"`roles` VARCHAR(255) NOT NULL DEFAULT '', " +
		"`updated_block` BIGINT UNSIGNED NOT NULL DEFAULT 0, " +
		"PRIMARY KEY (`address`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8",

	"CREATE TABLE IF NOT EXISTS `ledger_event` (" +
		"`id` BIGINT UNSIGNED NOT NULL AUTO_INCREMENT, " +
		"`tx_hash` CHAR(66) NOT NULL, " +
		"`kind` VARCHAR(32) NOT NULL, " +
		"`account` CHAR(42) NOT NULL DEFAULT '', " +
		"`block_index` BIGINT UNSIGNED NOT NULL, " +
		"`block_time` BIGINT UNSIGNED NOT NULL, " +
		"`log_index` INT UNSIGNED NOT NULL, " +
		"`from_addr` CHAR(42) NOT NULL DEFAULT '', " +
		"`to_addr` CHAR(42) NOT NULL DEFAULT '', " +
		"`amount` VARCHAR(80) NOT NULL DEFAULT '0', " +
		"`reason` VARCHAR(255) NOT NULL DEFAULT '', " +
		"`role` VARCHAR(32) NOT NULL DEFAULT '', " +
		"`status` TINYINT(1) NOT NULL DEFAULT 0, " +
		"PRIMARY KEY (`id`), " +
		"UNIQUE KEY `uk_event_identity` (`tx_hash`, `kind`, `account`), " +
		"KEY `idx_block_index` (`block_index`), " +
		"KEY `idx_from` (`from_addr`), " +
		"KEY `idx_to` (`to_addr`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8",

	"CREATE TABLE IF NOT EXISTS `counter` (" +
		"`id` INT NOT NULL, " +
		"`cursor` BIGINT NOT NULL DEFAULT -1, " +
		"`paused` TINYINT(1) NOT NULL DEFAULT 0, " +
		"`total_supply` VARCHAR(80) NOT NULL DEFAULT '0', " +
		"PRIMARY KEY (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8",

	"CREATE TABLE IF NOT EXISTS `asset_metadata` (" +
		"`id` INT NOT NULL, " +
		"`commodity_type` VARCHAR(64) NOT NULL DEFAULT '', " +
		"`unit` VARCHAR(32) NOT NULL DEFAULT '', " +
		"`total_quantity` VARCHAR(80) NOT NULL DEFAULT '0', " +
		"`storage_location` VARCHAR(255) NOT NULL DEFAULT '', " +
		"`certification_hash` CHAR(66) NOT NULL DEFAULT '', " +
		"`created_at` BIGINT UNSIGNED NOT NULL DEFAULT 0, " +
		"`updated_at` BIGINT UNSIGNED NOT NULL DEFAULT 0, " +
		"PRIMARY KEY (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8",
}

func (s *Store) ensureSchema() error {
	for _, stmt := range schemaStmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
