package config

type DatabaseConfig interface {
	GetDatabaseURL() string
}

type Database struct{}

var _ DatabaseConfig = Database{}

// GetDatabaseURL returns the postgres DSN. An empty value selects the in-memory
// repositories, which is only useful for local development.
func (Database) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}
