package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_EnvironmentPrefix(t *testing.T) {
	tests := []struct {
		environment string
		wantPrefix  string
	}{
		{environment: "production", wantPrefix: "prod"},
		{environment: "development", wantPrefix: "staging"},
		{environment: "staging", wantPrefix: "staging"},
		{environment: "test", wantPrefix: "staging"},
		{environment: "", wantPrefix: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_Keys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:profile:u1", kb.KeyProfile("u1"))
	assert.Equal(t, "prod:profile:", kb.KeyProfilePrefix())
	assert.Equal(t, "prod:personality:u1", kb.KeyPersonality("u1"))
	assert.Equal(t, "prod:answer:u1:q1", kb.KeyDailyAnswer("u1", "q1"))
	assert.Equal(t, "prod:chat:m1:", kb.KeyChatPrefix("m1"))
	assert.Equal(t, "prod:chat:m1:00000000000000000042:msg1", kb.KeyChatMessage("m1", 42, "msg1"))
}
