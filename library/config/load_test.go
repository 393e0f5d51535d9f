package config

import (
	"testing"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/stretchr/testify/require"
)

func TestStringOrEnvFallsBackToEnvironment(t *testing.T) {
	t.Setenv("CAVEBEAT_TEST_STRING", "  from-env  ")
	require.Equal(t, "from-env", StringOrEnv("settings.test.unset_string", "CAVEBEAT_TEST_STRING"))
}

func TestIntOrEnv(t *testing.T) {
	t.Setenv("CAVEBEAT_TEST_INT", "120")
	require.Equal(t, 120, IntOrEnv("settings.test.unset_int", "CAVEBEAT_TEST_INT", 60))

	t.Setenv("CAVEBEAT_TEST_INT", "not-a-number")
	require.Equal(t, 60, IntOrEnv("settings.test.unset_int", "CAVEBEAT_TEST_INT", 60))

	t.Setenv("CAVEBEAT_TEST_INT", "-5")
	require.Equal(t, 60, IntOrEnv("settings.test.unset_int", "CAVEBEAT_TEST_INT", 60))
}

func TestStringOrEnvPrefersConfig(t *testing.T) {
	gconfig.Shared.Set("settings.test.configured_string", " from-config ")
	t.Setenv("CAVEBEAT_TEST_STRING_2", "from-env")
	require.Equal(t, "from-config", StringOrEnv("settings.test.configured_string", "CAVEBEAT_TEST_STRING_2"))
}

func TestBoolOrDefault(t *testing.T) {
	require.True(t, BoolOrDefault("settings.test.unset_bool", true))

	gconfig.Shared.Set("settings.test.disabled_bool", false)
	require.False(t, BoolOrDefault("settings.test.disabled_bool", true))
}

func TestStringSlice(t *testing.T) {
	require.Equal(t, []string{"*"}, StringSlice("settings.test.unset_slice", []string{"*"}))

	gconfig.Shared.Set("settings.test.origins", []string{"https://a.example", "*.b.example"})
	require.Equal(t, []string{"https://a.example", "*.b.example"}, StringSlice("settings.test.origins", nil))
}

func TestLoadFromFileMissingIsTolerated(t *testing.T) {
	require.NotPanics(t, func() {
		LoadFromFile("")
		LoadFromFile(t.TempDir() + "/absent.yml")
	})
}
