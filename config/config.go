package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Configuration holds everything the server reads from the environment at start.
type Configuration struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	DBName   string `env:"DB_NAME" envDefault:"shop"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	EmailFrom string `env:"EMAIL_FROM"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// ImageStorage selects how uploaded images are persisted: "disk" or "inline".
	ImageStorage  string `env:"IMAGE_STORAGE" envDefault:"disk"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxImageWidth int    `env:"MAX_IMAGE_WIDTH" envDefault:"1024"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads an optional .env file and parses the environment into a Configuration.
func Load(files ...string) (*Configuration, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Configuration) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// MailConfigured reports whether outbound SMTP credentials are present.
func (c *Configuration) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

func (c *Configuration) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
