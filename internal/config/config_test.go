package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ARK_API_KEY", "ARK_MODEL", "ARK_TEMPERATURE",
		"CHAT_HISTORY_LIMIT", "CHAT_MAX_MESSAGE_LENGTH", "CHAT_STORE_DRIVER",
		"SPEECH_API_KEY", "SPEECH_BASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Error("AI should be disabled without credentials")
	}
	if cfg.Chat.HistoryLimit != 20 {
		t.Errorf("default history limit = %d, want 20", cfg.Chat.HistoryLimit)
	}
	if cfg.Chat.MaxMessageLength != 1000 {
		t.Errorf("default max message length = %d, want 1000", cfg.Chat.MaxMessageLength)
	}
	if cfg.Chat.StoreDriver != "memory" {
		t.Errorf("default store driver = %q, want memory", cfg.Chat.StoreDriver)
	}
	if cfg.Speech.Enabled {
		t.Error("speech should be disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "doubao-pro")
	t.Setenv("AI_TIMEOUT_SECONDS", "15")
	t.Setenv("CHAT_HISTORY_LIMIT", "5")
	t.Setenv("CHAT_STORE_DRIVER", "sqlite")
	t.Setenv("SPEECH_API_KEY", "sk")
	t.Setenv("SPEECH_BASE_URL", "https://api.example.com/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if !cfg.AI.Enabled() {
		t.Error("AI should be enabled")
	}
	if cfg.AI.Timeout != 15*time.Second {
		t.Errorf("AI timeout = %v", cfg.AI.Timeout)
	}
	if cfg.Chat.HistoryLimit != 5 {
		t.Errorf("history limit = %d", cfg.Chat.HistoryLimit)
	}
	if cfg.Chat.StoreDriver != "sqlite" {
		t.Errorf("store driver = %q", cfg.Chat.StoreDriver)
	}
	if !cfg.Speech.Enabled {
		t.Error("speech should be enabled")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("ARK_TEMPERATURE", "hot")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric ARK_TEMPERATURE")
	}

	t.Setenv("ARK_TEMPERATURE", "")
	t.Setenv("CHAT_STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported CHAT_STORE_DRIVER")
	}
}
