package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docktop/internal/engine"
)

func TestParsePortSpec(t *testing.T) {
	t.Run("host container pairs and bare ports", func(t *testing.T) {
		exposed, bindings, err := parsePortSpec("8080:80, 9090 3000:3000")
		require.NoError(t, err)

		assert.Len(t, exposed, 3)
		assert.Contains(t, exposed, "80/tcp")
		assert.Contains(t, exposed, "9090/tcp")
		assert.Contains(t, exposed, "3000/tcp")

		require.Len(t, bindings["80/tcp"], 1)
		assert.Equal(t, engine.PortBinding{HostIP: "0.0.0.0", HostPort: "8080"}, bindings["80/tcp"][0])
		assert.Equal(t, "9090", bindings["9090/tcp"][0].HostPort)
	})

	t.Run("empty spec", func(t *testing.T) {
		exposed, bindings, err := parsePortSpec("")
		require.NoError(t, err)
		assert.Nil(t, exposed)
		assert.Nil(t, bindings)
	})

	t.Run("malformed ports rejected", func(t *testing.T) {
		for _, spec := range []string{"eighty", "8080:http", "70000", "8080:"} {
			_, _, err := parsePortSpec(spec)
			assert.Error(t, err, "spec %q", spec)
		}
	})
}

func TestParseMemorySpec(t *testing.T) {
	cases := []struct {
		spec string
		want int64
	}{
		{"", 0},
		{"512m", 536870912},
		{"512M", 536870912},
		{"2g", 2147483648},
		{"1024k", 1048576},
		{"100", 100},
		{" 1G ", 1073741824},
	}
	for _, tc := range cases {
		got, err := parseMemorySpec(tc.spec)
		require.NoError(t, err, "spec %q", tc.spec)
		assert.Equal(t, tc.want, got, "spec %q", tc.spec)
	}

	for _, spec := range []string{"abc", "12q", "-5m", "m"} {
		_, err := parseMemorySpec(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestParseCPUSpec(t *testing.T) {
	got, err := parseCPUSpec("0.5")
	require.NoError(t, err)
	assert.Equal(t, int64(500000000), got)

	got, err = parseCPUSpec("2")
	require.NoError(t, err)
	assert.Equal(t, int64(2000000000), got)

	got, err = parseCPUSpec("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	for _, spec := range []string{"half", "-1"} {
		_, err := parseCPUSpec(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestParseRestartPolicy(t *testing.T) {
	assert.Equal(t, "always", parseRestartPolicy("always"))
	assert.Equal(t, "unless-stopped", parseRestartPolicy("Unless-Stopped"))
	assert.Equal(t, "on-failure", parseRestartPolicy("on_failure"))
	assert.Equal(t, "no", parseRestartPolicy("none"))
	assert.Equal(t, "", parseRestartPolicy(""))
	assert.Equal(t, "no", parseRestartPolicy("sometimes"))
}

func TestBuildCreateConfig(t *testing.T) {
	cfg, err := buildCreateConfig(Create{
		Image:   "nginx:latest",
		Name:    "web",
		Ports:   "8080:80",
		Env:     "FOO=bar BAZ=qux",
		CPU:     "1.5",
		Memory:  "512m",
		Restart: "always",
	})
	require.NoError(t, err)

	assert.Equal(t, "nginx:latest", cfg.Image)
	assert.Equal(t, []string{"FOO=bar", "BAZ=qux"}, cfg.Env)
	assert.Contains(t, cfg.ExposedPorts, "80/tcp")
	require.NotNil(t, cfg.HostConfig)
	assert.Equal(t, int64(1500000000), cfg.HostConfig.NanoCPUs)
	assert.Equal(t, int64(536870912), cfg.HostConfig.Memory)
	require.NotNil(t, cfg.HostConfig.RestartPolicy)
	assert.Equal(t, "always", cfg.HostConfig.RestartPolicy.Name)
}

func TestBuildCreateConfigDefaults(t *testing.T) {
	cfg, err := buildCreateConfig(Create{Image: "redis"})
	require.NoError(t, err)
	require.NotNil(t, cfg.HostConfig)

	assert.Empty(t, cfg.Env)
	assert.Empty(t, cfg.ExposedPorts)
	assert.Zero(t, cfg.HostConfig.NanoCPUs)
	assert.Zero(t, cfg.HostConfig.Memory)
	assert.Nil(t, cfg.HostConfig.RestartPolicy)
}
