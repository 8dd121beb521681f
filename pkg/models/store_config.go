package models

// StoreBackendType identifies which document-store backend to build
type StoreBackendType string

const (
	StoreBackendRedis      StoreBackendType = "redis"
	StoreBackendPostgreSQL StoreBackendType = "postgresql"
	StoreBackendMySQL      StoreBackendType = "mysql"
	StoreBackendSQLite     StoreBackendType = "sqlite"
)

// StoreConfig holds connection settings for the document store collaborator
type StoreConfig struct {
	Backend StoreBackendType `yaml:"backend" json:"backend"`

	// Redis backend
	RedisURL string `yaml:"redis_url,omitempty" json:"redis_url,omitzero"`

	// SQL backends
	DSN      string `yaml:"dsn,omitempty" json:"dsn,omitzero"`
	Host     string `yaml:"host,omitempty" json:"host,omitzero"`
	Port     int    `yaml:"port,omitempty" json:"port,omitzero"`
	Username string `yaml:"username,omitempty" json:"username,omitzero"`
	Password string `yaml:"password,omitempty" json:"password,omitzero"`
	Database string `yaml:"database,omitempty" json:"database,omitzero"`
	SSLMode  string `yaml:"ssl_mode,omitempty" json:"ssl_mode,omitzero"`
	FilePath string `yaml:"file_path,omitempty" json:"file_path,omitzero"`

	MaxOpenConns    int `yaml:"max_open_conns,omitempty" json:"max_open_conns,omitzero"`
	MaxIdleConns    int `yaml:"max_idle_conns,omitempty" json:"max_idle_conns,omitzero"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitzero"`
}
