package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps allowed pair",
			args:    []string{"-b", "leveldb", "-x", "junk"},
			allowed: []string{"-b"},
			want:    []string{"-b", "leveldb"},
		},
		{
			name:    "keeps equals form",
			args:    []string{"--config=conf.json", "-v"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "drops everything when nothing allowed",
			args:    []string{"-a", "1", "-b"},
			allowed: []string{},
			want:    []string{},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-ref"},
			allowed: []string{"-ref"},
			want:    []string{"-ref"},
		},
		{
			name:    "value that looks like a flag is not consumed",
			args:    []string{"-b", "-d", "dsn"},
			allowed: []string{"-b", "-d"},
			want:    []string{"-b", "-d", "dsn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
