package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type portalConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "portal.json5")
	writeFile(t, name, `{
		// portal credentials
		base_url: "https://portal.example.com",
		username: "alice",
	}`)

	config, err := ReadConfig[portalConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.com", config.BaseUrl)
	require.Equal(t, "alice", config.Username)
	require.Equal(t, "", config.Password)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "portal.json5"), `{
		base_url: "https://portal.example.com",
		username: "alice",
	}`)
	writeFile(t, filepath.Join(dir, "portal.local.json5"), `{
		username: "bob",
		password: "hunter2",
	}`)

	config, err := ReadConfig[portalConfig](filepath.Join(dir, "portal.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.com", config.BaseUrl)
	require.Equal(t, "bob", config.Username)
	require.Equal(t, "hunter2", config.Password)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[portalConfig](filepath.Join(t.TempDir(), "nope.json5"))
	require.True(t, os.IsNotExist(err))
}
