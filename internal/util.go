package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

type Secrets struct {
	Jwt            string       `json:"jwt"`
	Port           int          `json:"port"`
	AllowedOrigins []string     `json:"allowedOrigins"`
	Store          StoreSecrets `json:"store"`
}

type StoreSecrets struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	Db       int    `json:"db"`
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "/go/src/app/secrets.json"
	if os.Getenv("GEM_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("GEM_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open secrets.json: %w", err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, err
	}

	if secrets.Port == 0 {
		secrets.Port = 8000
	}
	if secrets.Store.Addr == "" {
		secrets.Store.Addr = "localhost:6379"
	}

	return &secrets, nil
}
