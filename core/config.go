package core

import (
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Env             string // DEV (default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		SecretKey       string
		FromEmail       string
		FrontendBaseURL string
		SendgridAPIKey  string
		RollbarToken    string
		Server          ServerConfig
		Database        DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		PublicDir          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.FromEmail}
}

// LoadConfig reads configuration from the environment with sane DEV defaults.
// An optional `config/.env.<env>` file is loaded first if it exists.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Hesabu")
	v.SetDefault("secretKey", "w3+2q(m#ed$g^58_hesabu_x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("fromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("publicDir", "public")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "hesabu")
	v.SetDefault("dbUser", "postgres")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        env == "TEST",
		SecretKey:       v.GetString("secretKey"),
		FromEmail:       v.GetString("fromEmail"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		SendgridAPIKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			PublicDir:          v.GetString("publicDir"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("dbEngine"),
			Name:       v.GetString("dbName"),
			User:       v.GetString("dbUser"),
			Password:   v.GetString("dbPassword"),
			Host:       v.GetString("dbHost"),
			Port:       v.GetString("dbPort"),
			DisableTLS: v.GetBool("dbDisableTLS"),
		},
	}
	return conf, nil
}
