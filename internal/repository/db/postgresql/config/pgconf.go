package config

// PGConf holds PostgreSQL connection settings
type PGConf struct {
	DatabaseDSN string
}
