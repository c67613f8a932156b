package config

import (
	"github.com/joho/godotenv"
)

// LoadEnv reads .env from the working directory when present. Variables
// already set in the process environment are left untouched.
func LoadEnv() bool {
	return godotenv.Load() == nil
}
