package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	DBUser  string
	DBPass  string
	DBHost  string
	DBPort  string
	DBName  string
	Addr    string
	ReadDSN string
	SeedDev bool
}

// New reads configuration from the environment with defaults.
func New() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "pledge_backend")
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("READ_DSN", "")
	v.SetDefault("SEED_DEV", false)

	return Config{
		DBUser:  v.GetString("DB_USER"),
		DBPass:  v.GetString("DB_PASS"),
		DBHost:  v.GetString("DB_HOST"),
		DBPort:  v.GetString("DB_PORT"),
		DBName:  v.GetString("DB_NAME"),
		Addr:    v.GetString("ADDR"),
		ReadDSN: v.GetString("READ_DSN"),
		SeedDev: v.GetBool("SEED_DEV"),
	}
}

func (c Config) MySQLDSN() string {
	if c.ReadDSN != "" {
		return c.ReadDSN
	}
	auth := c.DBUser
	if c.DBPass != "" {
		auth += ":" + c.DBPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=Local", auth, c.DBHost, c.DBPort, c.DBName)
}
