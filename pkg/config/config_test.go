package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/feluda/pkg/errors"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultRestrictive, cfg.Licenses.Restrictive)
	assert.Empty(t, cfg.Licenses.Ignore)
	assert.Equal(t, 3, cfg.Dependencies.MaxDepth)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, 30*time.Second, cfg.Scan.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Strict)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".feluda.toml", `
strict = true

[licenses]
restrictive = ["GPL-3.0", "AGPL-3.0"]
ignore = ["MIT"]

[dependencies]
max_depth = 5

[[dependencies.ignore]]
name = "left-pad"
reason = "vendored"

[[dependencies.ignore]]
name = "lodash"
version = "4.17.21"

[scan]
exclude = ["examples/**"]
timeout = "45s"

[[compatibility]]
license = "MIT"
accepts = ["MIT", "ISC"]
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"GPL-3.0", "AGPL-3.0"}, cfg.Licenses.Restrictive)
	assert.Equal(t, []string{"MIT"}, cfg.Licenses.Ignore)
	assert.Equal(t, 5, cfg.Dependencies.MaxDepth)
	require.Len(t, cfg.Dependencies.Ignore, 2)
	assert.Equal(t, IgnoreRule{Name: "left-pad", Reason: "vendored"}, cfg.Dependencies.Ignore[0])
	assert.Equal(t, []string{"examples/**"}, cfg.Scan.Exclude)
	assert.Equal(t, 45*time.Second, cfg.Scan.Timeout)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, filepath.Join(dir, ".feluda.toml"), cfg.File)

	m := cfg.Matrix()
	assert.True(t, m.Accepts("MIT", "ISC"))
	assert.False(t, m.Accepts("MIT", "Apache-2.0"))
	assert.True(t, m.Accepts("Apache-2.0", "MIT"))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".feluda.yaml", `
licenses:
  ignore: [Apache-2.0]
scan:
  workers: 2
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apache-2.0"}, cfg.Licenses.Ignore)
	assert.Equal(t, 2, cfg.Scan.Workers)
}

func TestLoadDirectOnlyDepth(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".feluda.toml", "[dependencies]\nmax_depth = 0\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Dependencies.MaxDepth)
	assert.Empty(t, cfg.Validate())
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".feluda.toml", "[licenses\nrestrictive = ")

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfig))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("FELUDA_LICENSES_RESTRICTIVE", `["GPL-2.0"]`)
	t.Setenv("FELUDA_DEPENDENCIES_IGNORE", `[{"name":"chalk","reason":"dev only"}]`)
	t.Setenv("FELUDA_STRICT", "true")
	t.Setenv("FELUDA_DEPENDENCIES_MAX_DEPTH", "1")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"GPL-2.0"}, cfg.Licenses.Restrictive)
	assert.Equal(t, []IgnoreRule{{Name: "chalk", Reason: "dev only"}}, cfg.Dependencies.Ignore)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 1, cfg.Dependencies.MaxDepth)
}

func TestLoadEnvNotJSON(t *testing.T) {
	t.Setenv("FELUDA_LICENSES_IGNORE", "MIT,ISC")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfig, errors.GetCode(err))
}

func TestIgnoreRules(t *testing.T) {
	cfg := Default()
	cfg.Licenses.Ignore = []string{"apache 2.0"}
	cfg.Dependencies.Ignore = []IgnoreRule{
		{Name: "left-pad"},
		{Name: "lodash", Version: "4.17.21"},
	}

	assert.True(t, cfg.IgnoresLicense("Apache-2.0"))
	assert.False(t, cfg.IgnoresLicense("MIT"))
	assert.False(t, cfg.IgnoresLicense(""))

	_, ok := cfg.IgnoresDependency("left-pad", "1.3.0")
	assert.True(t, ok, "name-only rule matches every version")
	_, ok = cfg.IgnoresDependency("lodash", "4.17.21")
	assert.True(t, ok)
	_, ok = cfg.IgnoresDependency("lodash", "4.17.20")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Licenses.Restrictive = []string{"GPL-3.0", "", "GPL-3.0", "not a license!"}
	cfg.Licenses.Ignore = []string{"GPL-3.0"}
	cfg.Dependencies.Ignore = []IgnoreRule{{Name: "a"}, {Name: "a"}, {Name: " "}}

	fields := make(map[string]int)
	for _, w := range cfg.Validate() {
		fields[w.Field]++
	}
	assert.Equal(t, 1, fields["licenses.restrictive[1]"], "empty identifier")
	assert.Equal(t, 1, fields["licenses.restrictive[2]"], "duplicate")
	assert.Equal(t, 1, fields["licenses.restrictive[3]"], "invalid identifier")
	assert.Equal(t, 2, fields["licenses"], "both restrictive and ignored, once per occurrence")
	assert.Equal(t, 1, fields["dependencies.ignore[1]"], "duplicate rule")
	assert.Equal(t, 1, fields["dependencies.ignore[2]"], "empty name")
}
