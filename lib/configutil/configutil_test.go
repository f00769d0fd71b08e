package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl   string `json:"base_url"`
	PageSize  int    `json:"page_size"`
	UserAgent string `json:"user_agent"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	defaults := testConfig{BaseUrl: "https://stihirus.ru", PageSize: 20, UserAgent: "ua"}

	_, err := ReadConfig(filepath.Join(dir, "config.json5"), defaults)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		// comments are allowed
		page_size: 10,
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{user_agent: "local-ua"}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:   "https://stihirus.ru",
		PageSize:  10,
		UserAgent: "local-ua",
	}, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{page_size: `), 0600)
	if err != nil {
		t.Fatal(err)
	}

	defaults := testConfig{PageSize: 20}
	cfg, err := ReadConfig(filepath.Join(dir, "config.json5"), defaults)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, defaults, cfg)
}

type pointerConfig struct {
	DelayMs *int  `json:"delay_ms"`
	Bypass  *bool `json:"bypass"`
}

func TestReadConfigPointerZero(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{delay_ms: 0, bypass: false}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig(filepath.Join(dir, "config.json5"), pointerConfig{})
	require.NoError(t, err)
	require.NotNil(t, cfg.DelayMs)
	require.Zero(t, *cfg.DelayMs)
	require.NotNil(t, cfg.Bypass)
	require.False(t, *cfg.Bypass)
}
