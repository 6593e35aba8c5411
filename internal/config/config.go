package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	Cors           Cors           `mapstructure:",squash"`
	IncomeProgress IncomeProgress `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	Driver   string        `mapstructure:"database_driver"`
	URL      string        `mapstructure:"database_url"`
	Name     string        `mapstructure:"database_name"`
	User     string        `mapstructure:"database_user"`
	Password string        `mapstructure:"database_password"`
	SSLMode  string        `mapstructure:"database_sslmode"`
	Timeout  time.Duration `mapstructure:"database_timeout"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
	HashCost int           `mapstructure:"auth_hash_cost"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type IncomeProgress struct {
	CronSchedule string `mapstructure:"income_progress_cron"`
	Enabled      bool   `mapstructure:"income_progress_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", 3000)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("DATABASE_DRIVER", DriverMongo)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "sales")
	viper.SetDefault("DATABASE_USER", "")
	viper.SetDefault("DATABASE_PASSWORD", "")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_TIMEOUT", "10s")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "1h")
	viper.SetDefault("AUTH_HASH_COST", 10)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("INCOME_PROGRESS_CRON", "0 7 * * *") // Todos os dias às 7h da manhã
	viper.SetDefault("INCOME_PROGRESS_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// JWT_SECRET é o nome usado pelas instalações antigas
	if err := viper.BindEnv("AUTH_SECRET", "AUTH_SECRET", "JWT_SECRET"); err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar configuração")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica valores obrigatórios e normaliza os demais
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMySQL:
	default:
		return errors.Errorf("DATABASE_DRIVER inválido: %q (valores aceitos: mongodb, postgres, mysql)", c.Database.Driver)
	}

	if c.Auth.Secret == "" {
		return errors.New("AUTH_SECRET é obrigatório")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.Errorf("AUTH_TOKEN_TTL inválido: %s", c.Auth.TokenTTL)
	}

	origins := make([]string, 0, len(c.Cors.AllowedOrigins))
	for _, origin := range c.Cors.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Cors.AllowedOrigins = origins

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado; usando apenas variáveis de ambiente")
}
