package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server string  `yaml:"server"`
	User   string  `yaml:"user"`
	Pass   string  `yaml:"pass"`
	TLS    bool    `yaml:"tls"`
	Prefix string  `yaml:"prefix"`
	Rate   float64 `yaml:"rate"`

	Session string      `yaml:"session"`
	Store   StoreConfig `yaml:"store"`
}

type StoreConfig struct {
	// Kind is one of memory, disk, badger, sqlite, postgres or s3.
	Kind string `yaml:"kind"`

	// DSN is a directory for disk and badger, a data source name for SQL stores and a bucket for s3.
	DSN        string `yaml:"dsn"`
	Passphrase string `yaml:"passphrase"`
	Table      string `yaml:"table"`

	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`

	// PGPKey is an armored private key file; if set, values are sealed with it before being stored.
	PGPKey string `yaml:"pgp_key"`
}

func defaultConfig() Config {
	return Config{
		Server:  "localhost:143",
		Session: "default",
		Store: StoreConfig{
			Kind:  "memory",
			Table: "foldertree",
		},
	}
}

// loadConfig reads the YAML file if there is one, then applies the environment, including an optional .env file.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, err
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	for env, val := range map[string]*string{
		"FOLDERTREE_SERVER":         &cfg.Server,
		"FOLDERTREE_USER":           &cfg.User,
		"FOLDERTREE_PASS":           &cfg.Pass,
		"FOLDERTREE_PREFIX":         &cfg.Prefix,
		"FOLDERTREE_SESSION":        &cfg.Session,
		"FOLDERTREE_STORE":          &cfg.Store.Kind,
		"FOLDERTREE_STORE_DSN":      &cfg.Store.DSN,
		"FOLDERTREE_STORE_PASS":     &cfg.Store.Passphrase,
		"FOLDERTREE_STORE_REGION":   &cfg.Store.Region,
		"FOLDERTREE_STORE_ENDPOINT": &cfg.Store.Endpoint,
		"FOLDERTREE_PGP_KEY":        &cfg.Store.PGPKey,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*val = v
		}
	}

	if v, ok := os.LookupEnv("FOLDERTREE_TLS"); ok {
		tls, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, err
		}

		cfg.TLS = tls
	}

	return cfg, nil
}
