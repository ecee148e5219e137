package config

import "testing"

func TestLoad(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("CHAT_MODEL", "")
	t.Setenv("ANALYSIS_MODEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MongoDatabase != "financebot" {
		t.Errorf("MongoDatabase = %q, want default financebot", cfg.MongoDatabase)
	}
	if cfg.ChatModel == "" || cfg.AnalysisModel == "" {
		t.Error("expected model defaults to be applied")
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want default 8080", cfg.HTTPPort)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("GEMINI_API_KEY", "test-key")

	if _, err := Load(); err == nil {
		t.Error("Load() with no MONGODB_URI should fail")
	}

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Load() with no GEMINI_API_KEY should fail")
	}
}
