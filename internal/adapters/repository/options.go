package repository

// Default driver settings.
const (
	defaultDataDir     = "data"
	defaultRedisAddr   = "localhost:6379"
	defaultRedisPrefix = "salesboard"
)

// Option applies a configuration option to Open.
type Option func(*options)

type options struct {
	dataDir     string
	redis       RedisConfig
	postgresDSN string
}

func newOptions(opts ...Option) options {
	o := options{
		dataDir: defaultDataDir,
		redis: RedisConfig{
			Addr:   defaultRedisAddr,
			Prefix: defaultRedisPrefix,
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDataDir sets the directory used by the file driver.
func WithDataDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.dataDir = dir
		}
	}
}

// WithRedis sets the redis driver connection settings. Empty fields keep
// their defaults.
func WithRedis(cfg RedisConfig) Option {
	return func(o *options) {
		if cfg.Addr != "" {
			o.redis.Addr = cfg.Addr
		}
		if cfg.Prefix != "" {
			o.redis.Prefix = cfg.Prefix
		}
		o.redis.Password = cfg.Password
		o.redis.DB = cfg.DB
	}
}

// WithPostgresDSN sets the postgres driver connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *options) {
		o.postgresDSN = dsn
	}
}
