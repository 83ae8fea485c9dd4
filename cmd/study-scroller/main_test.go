// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/study-scroller/internal/httputil"
	"github.com/pdiddy/study-scroller/internal/secrets"
	"github.com/pdiddy/study-scroller/pkg/types"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix("STUDY_SCROLLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if yaml != "" {
		path := filepath.Join(t.TempDir(), "study-scroller.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(t, ""), secrets.Secrets{})
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, httputil.DefaultUserAgent, cfg.Feed.UserAgent)
	assert.Equal(t, types.DefaultSampleSize, cfg.Feed.SampleSize)
	assert.Equal(t, types.DefaultDrugLimit, cfg.Feed.DrugLimit)
	assert.Equal(t, types.DefaultTextLimit, cfg.Feed.TextLimit)
	assert.Equal(t, types.BackendSQLite, cfg.Library.Backend)
	assert.Equal(t, types.DefaultSlot, cfg.Library.Slot)
	assert.Equal(t, filepath.Join(xdg.DataHome, appName), cfg.Library.DataDir)
	assert.Equal(t, types.DefaultAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Feed.OpenAlexEmail)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	t.Setenv("STUDY_SCROLLER_LIBRARY_BACKEND", "bolt")

	v := newViper(t, `
feed:
  timeout: 3s
  sample_size: 4
  text_limit: 80
library:
  data_dir: /tmp/scroller
server:
  addr: 127.0.0.1:9090
`)
	cfg, err := loadConfig(v, secrets.Secrets{})
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, 4, cfg.Feed.SampleSize)
	assert.Equal(t, 80, cfg.Feed.TextLimit)
	assert.Equal(t, types.DefaultDrugLimit, cfg.Feed.DrugLimit)
	assert.Equal(t, types.BackendBolt, cfg.Library.Backend)
	assert.Equal(t, "/tmp/scroller", cfg.Library.DataDir)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
}

func TestLoadConfigOpenAlexEmail(t *testing.T) {
	s := secrets.Secrets{secrets.OpenAlexEmail: "secret@example.com"}

	cfg, err := loadConfig(newViper(t, ""), s)
	require.NoError(t, err)
	assert.Equal(t, "secret@example.com", cfg.Feed.OpenAlexEmail)

	cfg, err = loadConfig(newViper(t, "feed:\n  openalex_email: config@example.com\n"), s)
	require.NoError(t, err)
	assert.Equal(t, "config@example.com", cfg.Feed.OpenAlexEmail)
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", localURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9090/", localURL("127.0.0.1:9090"))
}

func TestPrintVersion(t *testing.T) {
	info := buildInfo{App: appName, Version: "1.2.0", Go: "go1.25.6", LibraryBackend: "bolt"}

	var buf bytes.Buffer
	require.NoError(t, printVersion(&buf, info, false))
	assert.Equal(t, "study-scroller 1.2.0 (go1.25.6, library: bolt)\n", buf.String())

	buf.Reset()
	require.NoError(t, printVersion(&buf, info, true))
	var got buildInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, info, got)
}

func TestCurrentBuild(t *testing.T) {
	info := currentBuild("sqlite")
	assert.Equal(t, appName, info.App)
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, "sqlite", info.LibraryBackend)
	assert.True(t, strings.HasPrefix(info.Go, "go"))
}

func TestSetupLogger(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("debug", false, "")
	cmd.Flags().String("log-format", "text", "")

	require.NoError(t, cmd.Flags().Set("log-format", "xml"))
	assert.Error(t, setupLogger(cmd))

	require.NoError(t, cmd.Flags().Set("log-format", "json"))
	assert.NoError(t, setupLogger(cmd))

	require.NoError(t, cmd.Flags().Set("log-format", "text"))
	assert.NoError(t, setupLogger(cmd))
}
