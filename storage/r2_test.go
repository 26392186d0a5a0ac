package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{"host only", "https://cdn.example.com", "backups/a.json", "https://cdn.example.com/backups/a.json"},
		{"trailing slash", "https://cdn.example.com/league/", "a.json", "https://cdn.example.com/league/a.json"},
		{"no trailing slash", "https://cdn.example.com/league", "/a.json", "https://cdn.example.com/league/a.json"},
		{"no base", "", "a.json", ""},
		{"no key", "https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(tt.base, tt.key))
		})
	}
}

func TestNewR2UploaderRequiresCredentials(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), R2Config{AccountID: "acct", BucketName: "b"})
	require.Error(t, err)
}
