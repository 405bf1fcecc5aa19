package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvProduction = "production"

	StoreDynamo = "dynamo"
	StoreMongo  = "mongo"

	NotifierSMTP = "smtp"
	NotifierSNS  = "sns"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"3000"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	AppName  string `env:"APP_NAME" envDefault:"Trading Edge"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreBackend   string       `env:"STORE_BACKEND" envDefault:"dynamo"`
	AWSRegion      string       `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string       `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string       `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string       `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables `envPrefix:"DYNAMO_TABLE_"`
	MongoURI       string       `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase  string       `env:"MONGO_DATABASE" envDefault:"auth"`

	// JWTSecret signs HS256 tokens. When both key paths are set RS256 is used instead.
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTPrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	JWTExpiry         time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	NotifierBackend string `env:"NOTIFIER_BACKEND" envDefault:"smtp"`
	SMTPHost        string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUsername    string `env:"SMTP_USERNAME"`
	SMTPPassword    string `env:"SMTP_PASSWORD"`
	SenderEmail     string `env:"SENDER_EMAIL" envDefault:"noreply@example.com"`
	SNSRegion       string `env:"SNS_REGION" envDefault:"us-east-1"`
	SNSTopicARN     string `env:"SNS_TOPIC_ARN"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	// TrustProxy takes the client address from forwarding headers. Enable only
	// behind a proxy that overwrites them.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	VerifyOTPTTL time.Duration `env:"VERIFY_OTP_TTL" envDefault:"24h"`
	ResetOTPTTL  time.Duration `env:"RESET_OTP_TTL" envDefault:"15m"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string `env:"USERS" envDefault:"users"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether cookies must be Secure and cross-site eligible.
func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreDynamo, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.NotifierBackend {
	case NotifierSMTP:
	case NotifierSNS:
		if c.SNSTopicARN == "" {
			return fmt.Errorf("missing SNS_TOPIC_ARN for sns notifier")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_BACKEND %q", c.NotifierBackend)
	}
	if c.JWTSecret == "" && (c.JWTPrivateKeyPath == "" || c.JWTPublicKeyPath == "") {
		return fmt.Errorf("missing JWT_SECRET or JWT key pair paths")
	}
	return nil
}
