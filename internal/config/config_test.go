package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a"}, CSV("a"))
	assert.Equal(t, []string{"a", "b"}, CSV(" a, b ,"))
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("EDGE_TEST_STR", "set")
	assert.Equal(t, "set", EnvDefault("EDGE_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("EDGE_TEST_STR_MISSING", "fallback"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("EDGE_TEST_INT", "45")
	assert.Equal(t, 45, EnvIntDefault("EDGE_TEST_INT", 30))

	t.Setenv("EDGE_TEST_INT", "not a number")
	assert.Equal(t, 30, EnvIntDefault("EDGE_TEST_INT", 30))

	assert.Equal(t, 30, EnvIntDefault("EDGE_TEST_INT_MISSING", 30))
}
