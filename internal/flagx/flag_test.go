package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		allowed  []string
		expected []string
	}{
		{
			name:     "separate values",
			args:     []string{"-a", ":8080", "-d", "dsn", "-x", "ignored"},
			allowed:  []string{"-a", "-d"},
			expected: []string{"-a", ":8080", "-d", "dsn"},
		},
		{
			name:     "equals form",
			args:     []string{"--config=conf.json", "-a=:9090", "-z=nope"},
			allowed:  []string{"--config", "-a"},
			expected: []string{"--config=conf.json", "-a=:9090"},
		},
		{
			name:     "flag followed by another flag keeps no value",
			args:     []string{"-a", "-d", "dsn"},
			allowed:  []string{"-a", "-d"},
			expected: []string{"-a", "-d", "dsn"},
		},
		{
			name:     "nothing allowed",
			args:     []string{"-a", "x"},
			allowed:  []string{"-b"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd", "-c", "conf.json", "-a", ":8080"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"cmd", "-config=other.json"}
	assert.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"cmd", "-a", ":8080"}
	assert.Equal(t, "", JsonConfigFlags())
}
