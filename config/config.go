package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	LedgerCSV      = "csv"
	LedgerPostgres = "postgres"
)

type Config struct {
	ServerPort      string
	DataDir         string
	RestaurantsFile string
	UsersFile       string
	BookingsFile    string
	LedgerBackend   string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	RabbitURL       string
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] ignoring .env: %v", err)
	}

	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8082"),
		DataDir:         dataDir,
		RestaurantsFile: getEnv("RESTAURANTS_FILE", filepath.Join(dataDir, "restaurants.csv")),
		UsersFile:       getEnv("USERS_FILE", filepath.Join(dataDir, "users.csv")),
		BookingsFile:    getEnv("BOOKINGS_FILE", filepath.Join(dataDir, "bookings.csv")),
		LedgerBackend:   strings.ToLower(getEnv("LEDGER_BACKEND", LedgerCSV)),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "restaurant_booking"),
		RabbitURL:       os.Getenv("RABBITMQ_URL"),
	}
	return cfg
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.LedgerBackend {
	case LedgerCSV, LedgerPostgres:
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q (want %q or %q)", c.LedgerBackend, LedgerCSV, LedgerPostgres)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
