package judge

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazyfrankie/judge-cmp/constant"
)

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c := NewConfig()
		c.Files.Std = "std.txt"
		c.Files.User = "user.txt"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "descriptors", mutate: func(c *Config) { c.Files.Std, c.Files.User, c.Files.StdFD, c.Files.UserFD = "", "", 3, 4 }},
		{name: "mode alias", mutate: func(c *Config) { c.Mode = "exact" }},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "fuzzy" }, wantErr: true},
		{name: "small buffer", mutate: func(c *Config) { c.Buffer.Size = MinBufferSize - 1 }, wantErr: true},
		{name: "missing std", mutate: func(c *Config) { c.Files.Std = "" }, wantErr: true},
		{name: "missing user", mutate: func(c *Config) { c.Files.User = "" }, wantErr: true},
		{name: "negative eps", mutate: func(c *Config) { c.Mode, c.Epsilon = ModeFloat, -1 }, wantErr: true},
		{name: "nan eps", mutate: func(c *Config) { c.Mode, c.Epsilon = ModeFloat, math.NaN() }, wantErr: true},
		{name: "inf eps", mutate: func(c *Config) { c.Mode, c.Epsilon = ModeFloat, math.Inf(1) }, wantErr: true},
		{name: "zero eps", mutate: func(c *Config) { c.Mode, c.Epsilon = ModeFloat, 0 }},
		{name: "eps ignored outside float", mutate: func(c *Config) { c.Epsilon = -1 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
		{name: "negative memory limit", mutate: func(c *Config) { c.Limits.Memory = -1 }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := valid()
			test.mutate(c)
			err := c.Validate()
			if !test.wantErr {
				assert.NoError(t, err)
				return
			}
			var configErr *constant.ConfigErr
			assert.ErrorAs(t, err, &configErr)
		})
	}
}

func TestValidateEpsilon(t *testing.T) {
	assert.NoError(t, ValidateEpsilon(0))
	assert.NoError(t, ValidateEpsilon(1e-10))
	assert.NoError(t, ValidateEpsilon(1))
	assert.Error(t, ValidateEpsilon(math.SmallestNonzeroFloat64))
	assert.Error(t, ValidateEpsilon(-1e-10))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "judge.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mode": "float",
		"epsilon": 0.001,
		"files": {"std": "a.out", "user": "b.out"},
		"read_all": true,
		"security": {"syscalls": ["socket"]}
	}`), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ModeFloat, c.Mode)
	assert.Equal(t, 0.001, c.Epsilon)
	assert.Equal(t, "a.out", c.Files.Std)
	assert.Equal(t, -1, c.Files.StdFD)
	assert.Equal(t, DefaultBufferSize, c.Buffer.Size)
	assert.True(t, c.ReadAll)
	assert.Equal(t, []string{"socket"}, c.Security.Syscalls)
	assert.NoError(t, c.Validate())

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	c, err = LoadConfig(empty)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), c)

	var configErr *constant.ConfigErr
	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorAs(t, err, &configErr)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadConfig(bad)
	assert.ErrorAs(t, err, &configErr)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"normal":  ModeNormal,
		"":        ModeNormal,
		"Strict":  ModeStrict,
		"exact":   ModeStrict,
		"float":   ModeFloat,
		"numeric": ModeFloat,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("diff")
	assert.Error(t, err)

	_, err = Compare(Mode("diff"), NewBytesSource(nil), NewBytesSource(nil), 0)
	var configErr *constant.ConfigErr
	assert.ErrorAs(t, err, &configErr)
}
