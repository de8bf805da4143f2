package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foldertree.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
server: imap.example.com:993
tls: true
user: alice
store:
  kind: sqlite
  dsn: /var/lib/foldertree/trees.db
`), 0o600))

	t.Setenv("FOLDERTREE_USER", "bob")
	t.Setenv("FOLDERTREE_STORE_PASS", "secret")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "imap.example.com:993", cfg.Server)
	require.True(t, cfg.TLS)
	require.Equal(t, "bob", cfg.User)
	require.Equal(t, "default", cfg.Session)
	require.Equal(t, "sqlite", cfg.Store.Kind)
	require.Equal(t, "/var/lib/foldertree/trees.db", cfg.Store.DSN)
	require.Equal(t, "secret", cfg.Store.Passphrase)
	require.Equal(t, "foldertree", cfg.Store.Table)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("FOLDERTREE_TLS", "yes")

	_, err := loadConfig("")
	require.Error(t, err)

	t.Setenv("FOLDERTREE_TLS", "false")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestNewStore(t *testing.T) {
	tests := map[string]struct {
		cfg     StoreConfig
		wantErr bool
	}{
		"memory": {cfg: StoreConfig{Kind: "memory"}},
		"disk":   {cfg: StoreConfig{Kind: "disk", DSN: t.TempDir(), Passphrase: "pass"}},
		"sqlite": {cfg: StoreConfig{Kind: "sqlite", DSN: filepath.Join(t.TempDir(), "trees.db"), Table: "trees"}},
		"bad":    {cfg: StoreConfig{Kind: "floppy"}, wantErr: true},
		"pgp":    {cfg: StoreConfig{Kind: "memory", PGPKey: filepath.Join(t.TempDir(), "missing.asc")}, wantErr: true},
	}

	for name, tc := range tests {
		tc := tc

		t.Run(name, func(t *testing.T) {
			store, err := newStore(context.Background(), tc.cfg)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NoError(t, store.Close())
		})
	}
}
