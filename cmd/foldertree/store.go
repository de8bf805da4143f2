package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/ProtonMail/foldertree/async"
	"github.com/ProtonMail/foldertree/persist"
	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func newStore(ctx context.Context, cfg StoreConfig) (persist.Store, error) {
	store, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.PGPKey != "" {
		kr, err := loadKeyRing(cfg.PGPKey, cfg.Passphrase)
		if err != nil {
			return nil, err
		}

		store = persist.NewPGPStore(store, kr)
	}

	return persist.NewWriteControlledStore(store), nil
}

func newBackend(ctx context.Context, cfg StoreConfig) (persist.Store, error) {
	switch cfg.Kind {
	case "memory":
		return persist.NewInMemoryStore(), nil

	case "disk":
		return persist.NewOnDiskStore(
			cfg.DSN,
			[]byte(cfg.Passphrase),
			persist.WithCompressor(persist.ZLibCompressor{}),
			persist.WithSemaphore(persist.NewSemaphore(runtime.NumCPU(), async.LogPanicHandler{})),
		)

	case "badger":
		return persist.NewBadgerStore(cfg.DSN, []byte(cfg.Passphrase), async.LogPanicHandler{})

	case "sqlite":
		return persist.OpenSQLStore(ctx, persist.SQLite, cfg.DSN, cfg.Table)

	case "postgres":
		return persist.OpenSQLStore(ctx, persist.Postgres, cfg.DSN, cfg.Table)

	case "s3":
		return newS3Store(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Kind)
	}
}

func newS3Store(ctx context.Context, cfg StoreConfig) (persist.Store, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if key, secret := os.Getenv("FOLDERTREE_S3_ACCESS_KEY"), os.Getenv("FOLDERTREE_S3_SECRET_KEY"); key != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return persist.NewS3Store(client, cfg.DSN, cfg.Prefix), nil
}

func loadKeyRing(path, passphrase string) (*crypto.KeyRing, error) {
	armored, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := crypto.NewKeyFromArmored(string(armored))
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	if locked, err := key.IsLocked(); err != nil {
		return nil, err
	} else if locked {
		if key, err = key.Unlock([]byte(passphrase)); err != nil {
			return nil, fmt.Errorf("failed to unlock key: %w", err)
		}
	}

	return crypto.NewKeyRing(key)
}
