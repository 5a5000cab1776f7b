package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// s3PathSuffix is the S3-compatible API prefix of a Supabase-style storage
// origin.
const s3PathSuffix = "/storage/v1/s3"

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr         string        `mapstructure:"addr"`
		Password     string        `mapstructure:"password"`
		PortfolioTTL time.Duration `mapstructure:"portfolio_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Admin struct {
		Username     string `mapstructure:"username"`
		Password     string `mapstructure:"password"`
		PasswordHash string `mapstructure:"password_hash"`
	} `mapstructure:"admin"`
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	S3 struct {
		Endpoint        string `mapstructure:"endpoint"`
		Region          string `mapstructure:"region"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		Bucket          string `mapstructure:"bucket"`
		ForcePathStyle  bool   `mapstructure:"force_path_style"`
	} `mapstructure:"s3"`
	Supabase struct {
		URL            string `mapstructure:"url"`
		ServiceRoleKey string `mapstructure:"service_role_key"`
	} `mapstructure:"supabase"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	LocalStorage struct {
		Dir           string `mapstructure:"dir"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"local_storage"`
	Upload struct {
		MaxBytes int64 `mapstructure:"max_bytes"`
	} `mapstructure:"upload"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

// LoadConfig reads .env, an optional config.yaml from the given paths (the
// working directory when none are given) and the environment.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		envFiles = append(envFiles, strings.TrimRight(p, "/")+"/.env")
	}
	if err = godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("store.driver", "mongo")
	v.SetDefault("mongo.database", "portfolio")
	v.SetDefault("redis.portfolio_ttl", 5*time.Minute)
	v.SetDefault("auth.token_lifespan", 12*time.Hour)
	v.SetDefault("storage.driver", "auto")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.bucket", "uploads")
	v.SetDefault("s3.force_path_style", true)
	v.SetDefault("local_storage.dir", "./uploads")
	v.SetDefault("local_storage.public_base_url", "http://localhost:8080/uploads")
	v.SetDefault("upload.max_bytes", 10<<20)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("store.driver", "STORE_DRIVER")
	v.BindEnv("mongo.uri", "MONGODB_URI")
	v.BindEnv("mongo.database", "MONGODB_DATABASE")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.portfolio_ttl", "PORTFOLIO_CACHE_TTL")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("admin.username", "ADMIN_USERNAME")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")

	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.bucket", "S3_BUCKET_NAME")
	v.BindEnv("s3.force_path_style", "S3_FORCE_PATH_STYLE")
	v.BindEnv("supabase.url", "SUPABASE_URL")
	v.BindEnv("supabase.service_role_key", "SUPABASE_SERVICE_ROLE_KEY")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("local_storage.dir", "LOCAL_STORAGE_DIR")
	v.BindEnv("local_storage.public_base_url", "LOCAL_STORAGE_PUBLIC_URL")
	v.BindEnv("upload.max_bytes", "UPLOAD_MAX_BYTES")
	v.BindEnv("jaeger.otlp_endpoint", "OTLP_ENDPOINT")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	return
}

// StorageOrigin is the storage service origin used for public URLs and REST
// calls: the S3 endpoint without its S3 API suffix, else the Supabase URL.
func (c Config) StorageOrigin() string {
	if raw := strings.TrimSpace(c.S3.Endpoint); raw != "" {
		origin := strings.TrimRight(raw, "/")
		if strings.HasSuffix(strings.ToLower(origin), s3PathSuffix) {
			origin = origin[:len(origin)-len(s3PathSuffix)]
		}
		return strings.TrimRight(origin, "/")
	}
	return strings.TrimRight(strings.TrimSpace(c.Supabase.URL), "/")
}

// S3SDKEndpoint is the endpoint handed to the S3 client; it always carries
// the S3 API suffix. Empty when no endpoint is configured.
func (c Config) S3SDKEndpoint() string {
	raw := strings.TrimRight(strings.TrimSpace(c.S3.Endpoint), "/")
	if raw == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(raw), s3PathSuffix) {
		return raw
	}
	return raw + s3PathSuffix
}

// AdminAuthEnabled reports whether write routes are protected.
func (c Config) AdminAuthEnabled() bool {
	return c.Admin.Username != "" && c.Auth.JWTSecret != ""
}

// splitList accepts both YAML lists and a single comma separated env value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
