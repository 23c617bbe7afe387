package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "short flag with separate value",
			args:  []string{"-c", "conf.json", "-a", "https://api.github.com"},
			names: []string{"-c", "--config"},
			want:  []string{"-c", "conf.json"},
		},
		{
			name:  "long flag with equals",
			args:  []string{"--config=alt.json", "-p", "20"},
			names: []string{"-c", "--config"},
			want:  []string{"--config=alt.json"},
		},
		{
			name:  "order is preserved",
			args:  []string{"-p", "30", "-backend", "sqlite", "-x", "1"},
			names: []string{"-p", "-backend"},
			want:  []string{"-p", "30", "-backend", "sqlite"},
		},
		{
			name:  "unknown flags and positionals ignored",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"-c"},
			want:  []string{},
		},
		{
			name:  "flag without value at end is kept",
			args:  []string{"-c"},
			names: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "flag followed by another flag",
			args:  []string{"-c", "-p"},
			names: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "equals value may look like a flag",
			args:  []string{"--config=--weird.json"},
			names: []string{"--config"},
			want:  []string{"--config=--weird.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigPath([]string{"-c", "a.json", "-p", "10"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-p", "10", "-config=b.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-p", "10"}))
	assert.Equal(t, "", ConfigPath(nil))
}
