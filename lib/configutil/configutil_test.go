package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Years   []int  `json:"years"`
	Workdir string `json:"workdir"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	err := os.WriteFile(path, []byte(`{
		// comments are allowed
		base_url: "https://example.com",
		years: [2023, 2024],
		workdir: "work",
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.BaseUrl)
	require.Equal(t, []int{2023, 2024}, cfg.Years)
	require.Equal(t, "work", cfg.Workdir)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		base_url: "https://example.com",
		workdir: "work",
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		workdir: "/tmp/override",
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.BaseUrl)
	require.Equal(t, "/tmp/override", cfg.Workdir)
}

func TestReadConfigMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.True(t, os.IsNotExist(err))
}
