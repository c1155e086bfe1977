package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/pricing"
	"github.com/sangkips/tienda-api/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Sales     SalesConfig
	Printer   PrinterConfig
	Store     StoreConfig

	// EnvFileLoaded is false when no .env file was found and only the
	// process environment was read.
	EnvFileLoaded bool
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// AdminConfig holds the single back office operator account
type AdminConfig struct {
	Email    string
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// SalesConfig carries the business rules injected into the services
type SalesConfig struct {
	TaxRate              decimal.Decimal
	VoidRequiresFullData bool
	DatePolicy           validation.DateRangePolicy
	RestockAmount        int
	LowStockThreshold    int
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
}

// StoreConfig is printed in the receipt header
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
	RUC     string
}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	loaded := v.ReadInConfig() == nil

	return fromViper(v, loaded)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "tienda-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "tienda")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Guayaquil")
	v.SetDefault("DB_SQLITE_PATH", "tienda.db")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 12)
	v.SetDefault("ADMIN_EMAIL", "admin@tienda.local")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("TAX_RATE", "0.15")
	v.SetDefault("VOID_REQUIRES_FULL_DATA", false)
	v.SetDefault("PRODUCT_EXPIRY_RULE", string(validation.ExpiryAfter))
	v.SetDefault("PRODUCT_MAX_SHELF_LIFE_YEARS", 5)
	v.SetDefault("RESTOCK_AMOUNT", 10)
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("STORE_NAME", "Tienda")
	v.SetDefault("STORE_ADDRESS", "")
	v.SetDefault("STORE_PHONE", "")
	v.SetDefault("STORE_RUC", "")
}

func fromViper(v *viper.Viper, envFileLoaded bool) (*Config, error) {
	setDefaults(v)

	taxRate, err := pricing.ParseRate(v.GetString("TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE %q: %w", v.GetString("TAX_RATE"), err)
	}

	shelfLife := v.GetInt("PRODUCT_MAX_SHELF_LIFE_YEARS")
	if shelfLife <= 0 {
		return nil, fmt.Errorf("PRODUCT_MAX_SHELF_LIFE_YEARS must be positive, got %d", shelfLife)
	}

	restock := v.GetInt("RESTOCK_AMOUNT")
	if restock <= 0 {
		return nil, fmt.Errorf("RESTOCK_AMOUNT must be positive, got %d", restock)
	}

	return &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			Debug:    v.GetBool("APP_DEBUG"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			Timezone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Sales: SalesConfig{
			TaxRate:              taxRate,
			VoidRequiresFullData: v.GetBool("VOID_REQUIRES_FULL_DATA"),
			DatePolicy: validation.DateRangePolicy{
				Rule:           validation.ParseExpiryRule(v.GetString("PRODUCT_EXPIRY_RULE")),
				MaxShelfLifeYr: shelfLife,
			},
			RestockAmount:     restock,
			LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		},
		Printer: PrinterConfig{
			Type:    strings.ToLower(v.GetString("PRINTER_TYPE")),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
			Phone:   v.GetString("STORE_PHONE"),
			RUC:     v.GetString("STORE_RUC"),
		},
		EnvFileLoaded: envFileLoaded,
	}, nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// splitList splits a comma separated value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
