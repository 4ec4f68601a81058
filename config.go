package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	ConfigEnvPrefix   = "BAPI"
	DefaultConfigFile = "./config.yml"
	DefaultEnvFile    = "./config.env"
)

// Supported storage backends.
const (
	MemoryBackend   = "memory"
	BoltBackend     = "bolt"
	RedisBackend    = "redis"
	PostgresBackend = "postgres"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string        `yaml:"git_commit" envconfig:"BAPI_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"BAPI_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"BAPI_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"BAPI_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"BAPI_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"BAPI_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"BAPI_LOG_MAX_SIZE"` // in megabytes
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"BAPI_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"BAPI_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig  `yaml:"server"`
	API                     APIConfig     `yaml:"api"`
	Storage                 StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BAPI_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BAPI_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BAPI_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BAPI_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BAPI_SERVER_REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BAPI_SERVER_SHUTDOWN_TIMEOUT"`
}

// APIConfig tunes the books endpoints behavior.
type APIConfig struct {
	// NullOnMissing answers 200 with a `null` body instead of 404 when
	// a book to fetch or update does not exist.
	NullOnMissing bool  `yaml:"null_on_missing" envconfig:"BAPI_API_NULL_ON_MISSING"`
	MaxBodyBytes  int64 `yaml:"max_body_bytes" envconfig:"BAPI_API_MAX_BODY_BYTES"`
}

type StorageConfig struct {
	Backend  string         `yaml:"backend" envconfig:"BAPI_STORAGE_BACKEND"`
	Redis    RedisConfig    `yaml:"redis"`
	BoltDB   BoltDBConfig   `yaml:"boltdb"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BAPI_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BAPI_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BAPI_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BAPI_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BAPI_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BAPI_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BAPI_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BAPI_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BAPI_REDIS_PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BAPI_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BAPI_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BAPI_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BAPI_BOLTDB_BUCKET_NAME"`
}

type PostgresConfig struct {
	DSN          string        `yaml:"dsn" envconfig:"BAPI_POSTGRES_DSN" json:"-"`
	MaxConns     int32         `yaml:"max_conns" envconfig:"BAPI_POSTGRES_MAX_CONNS"`
	PingTimeout  time.Duration `yaml:"ping_timeout" envconfig:"BAPI_POSTGRES_PING_TIMEOUT"`
	QueryTimeout time.Duration `yaml:"query_timeout" envconfig:"BAPI_POSTGRES_QUERY_TIMEOUT"`
	Migrate      bool          `yaml:"migrate" envconfig:"BAPI_POSTGRES_MIGRATE"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 30 * time.Second
	}

	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}

	if config.LogFolder == "" {
		config.LogFolder = "./logs"
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.API.MaxBodyBytes <= 0 {
		config.API.MaxBodyBytes = 1 << 20
	}

	if config.Storage.Backend == "" {
		config.Storage.Backend = MemoryBackend
	}

	switch config.Storage.Backend {
	case MemoryBackend:
	case BoltBackend:
		if len(config.Storage.BoltDB.FilePath) == 0 || len(config.Storage.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	case RedisBackend:
		if len(config.Storage.Redis.Host) == 0 || len(config.Storage.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	case PostgresBackend:
		if len(config.Storage.Postgres.DSN) == 0 {
			return errors.New("make sure to set a valid postgres dsn in configuration file")
		}
		if config.Storage.Postgres.PingTimeout == 0 {
			config.Storage.Postgres.PingTimeout = 2 * time.Second
		}
		if config.Storage.Postgres.QueryTimeout == 0 {
			config.Storage.Postgres.QueryTimeout = 5 * time.Second
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", config.Storage.Backend)
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. The env file is optional.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile(configFile)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BAPI`.
	err = LoadConfigEnvs(ConfigEnvPrefix, config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
