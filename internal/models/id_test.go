package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.True(t, IsValidID(id), "generated id %q must be valid", id)
		_, dup := seen[id]
		assert.False(t, dup, "generated id %q must be unique", id)
		seen[id] = struct{}{}
	}
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "valid lowercase hex", id: "507f1f77bcf86cd799439011", want: true},
		{name: "empty", id: "", want: false},
		{name: "too short", id: "507f1f77bcf86cd79943901", want: false},
		{name: "too long", id: "507f1f77bcf86cd7994390111", want: false},
		{name: "uppercase rejected", id: "507F1F77BCF86CD799439011", want: false},
		{name: "non-hex characters", id: "507f1f77bcf86cd79943901z", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidID(tt.id))
		})
	}
}
