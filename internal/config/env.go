package config

import "time"

type StorageDriver string

const (
	StorageS3     StorageDriver = "s3"
	StorageMemory StorageDriver = "memory"
)

type Database struct {
	Host            string        `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port            int           `mapstructure:"DATABASE_PORT" default:"5432"`
	Name            string        `mapstructure:"DATABASE_NAME" default:"chemdb"`
	User            string        `mapstructure:"DATABASE_USER" default:"postgres"`
	Password        string        `mapstructure:"DATABASE_PASSWORD" default:"chemdb"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS" default:"10"`
	ConnMaxIdleTime time.Duration `mapstructure:"DATABASE_CONN_MAX_IDLE_TIME" default:"30s"`
	// seconds to wait when the pool has to dial a new connection
	ConnectTimeout int `mapstructure:"DATABASE_CONNECT_TIMEOUT" default:"2"`
}

// Redis is optional; an empty host disables the metadata cache.
type Redis struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"chemdb"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Storage struct {
	Driver         StorageDriver `mapstructure:"STORAGE_DRIVER" default:"s3"`
	Endpoint       string        `mapstructure:"STORAGE_ENDPOINT" default:"http://127.0.0.1:9000"`
	Region         string        `mapstructure:"STORAGE_REGION" default:"us-east-1"`
	Bucket         string        `mapstructure:"STORAGE_BUCKET" default:"chemdb"`
	AccessKey      string        `mapstructure:"STORAGE_ACCESS_KEY"`
	SecretKey      string        `mapstructure:"STORAGE_SECRET_KEY"`
	PathStyle      bool          `mapstructure:"STORAGE_PATH_STYLE" default:"true"`
	PublicURL      string        `mapstructure:"STORAGE_PUBLIC_URL"`
	MaxUploadMB    int64         `mapstructure:"STORAGE_MAX_UPLOAD_MB" default:"20"`
	CleanupWorkers int           `mapstructure:"STORAGE_CLEANUP_WORKERS" default:"8"`
}

type RPC struct {
	PubChem RPCPubChem `mapstructure:",squash"`
}

type RPCPubChem struct {
	Addr string `mapstructure:"PUBCHEM_ADDR" default:"https://pubchem.ncbi.nlm.nih.gov"`
}

type Export struct {
	FetchTimeout time.Duration `mapstructure:"EXPORT_FETCH_TIMEOUT" default:"15s"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}
