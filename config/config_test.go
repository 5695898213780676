package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ModelType)
	assert.Equal(t, "Japanese", cfg.LastSourceLang)
	assert.Equal(t, "English", cfg.LastTargetLang)
	assert.Equal(t, "ビジネス", cfg.TranslationStyle)
	assert.Equal(t, 1000, cfg.WindowWidth)
	assert.Equal(t, 600, cfg.WindowHeight)
	assert.False(t, cfg.AutoTranslateEnabled)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.SetModelType(ModelClaude)
	cfg.SetAPIKey(ProviderAnthropic, "sk-ant-test")
	cfg.SetLastLanguages("", "Korean")
	cfg.SetTranslationStyle("友人")
	cfg.SetLastTexts("hello", "こんにちは")
	cfg.SetWindowSize(800, 480)
	cfg.AutoTranslateEnabled = true
	require.NoError(t, cfg.Save())

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModelClaude, loaded.ModelType)
	assert.Equal(t, "sk-ant-test", loaded.APIKeys[ProviderAnthropic])
	assert.Equal(t, "Korean", loaded.LastTargetLang)
	assert.Equal(t, "友人", loaded.TranslationStyle)
	assert.Equal(t, "hello", loaded.LastSourceText)
	assert.Equal(t, "こんにちは", loaded.LastTargetText)
	assert.Equal(t, 800, loaded.WindowWidth)
	assert.Equal(t, 480, loaded.WindowHeight)
	assert.True(t, loaded.AutoTranslateEnabled)
}

func TestSaveKeepsFileOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadMergesDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	// An older config that predates the style and window fields.
	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"gpt","api_keys":{"openai":"sk-test"}}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModelGPT, cfg.ModelType)
	assert.Equal(t, "sk-test", cfg.APIKeys[ProviderOpenAI])
	assert.Equal(t, "", cfg.APIKeys[ProviderAnthropic])
	assert.Equal(t, "", cfg.APIKeys[ProviderGoogle])
	assert.Equal(t, "ビジネス", cfg.TranslationStyle)
	assert.Equal(t, 1000, cfg.WindowWidth)
}

func TestLoadMigratesLegacyModelName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"gpt4"}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModelGPT, cfg.ModelType)
}

func TestLoadFallsBackToDefaultsOnCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.ModelType)
	assert.Equal(t, "ビジネス", cfg.TranslationStyle)
	assert.Equal(t, 1000, cfg.WindowWidth)

	// Saving afterwards replaces the corrupt file with a valid one.
	require.NoError(t, cfg.Save())
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "English", reloaded.LastTargetLang)
}

func TestSavePreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"gpt","theme":"dark"}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "dark", raw["theme"])
	assert.Equal(t, "gpt", raw["model_type"])
}

func TestEnvKeyOverridesStoredKey(t *testing.T) {
	t.Setenv("DEEPYAMI_GOOGLE_API_KEY", "env-key")

	cfg := Default()
	cfg.SetModelType(ModelGemini)
	cfg.SetAPIKey(ProviderGoogle, "file-key")

	assert.Equal(t, "env-key", cfg.CurrentAPIKey())
	assert.True(t, cfg.IsConfigured())
}

func TestEnvKeyNotPersisted(t *testing.T) {
	t.Setenv("DEEPYAMI_OPENAI_API_KEY", "env-key")
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.SetModelType(ModelGPT)
	assert.Equal(t, "env-key", cfg.CurrentAPIKey())
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw struct {
		APIKeys map[string]string `json:"api_keys"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "", raw.APIKeys[ProviderOpenAI])
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name      string
		modelType string
		provider  string
		key       string
		want      bool
	}{
		{"no model", "", ProviderOpenAI, "sk-test", false},
		{"model without key", ModelGPT, ProviderOpenAI, "", false},
		{"model with blank key", ModelGPT, ProviderOpenAI, "   ", false},
		{"gpt with openai key", ModelGPT, ProviderOpenAI, "sk-test", true},
		{"gpt-mini with openai key", ModelGPTMini, ProviderOpenAI, "sk-test", true},
		{"claude with anthropic key", ModelClaude, ProviderAnthropic, "sk-ant", true},
		{"claude-haiku with anthropic key", ModelClaudeHaiku, ProviderAnthropic, "sk-ant", true},
		{"gemini with google key", ModelGemini, ProviderGoogle, "AIza", true},
		{"gemini-flash with google key", ModelGeminiFlash, ProviderGoogle, "AIza", true},
		{"claude with only openai key", ModelClaude, ProviderOpenAI, "sk-test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ModelType = tt.modelType
			cfg.APIKeys[tt.provider] = tt.key
			assert.Equal(t, tt.want, cfg.IsConfigured())
		})
	}
}

func TestCurrentAPIKeyTrims(t *testing.T) {
	cfg := Default()
	cfg.SetModelType(ModelGemini)
	cfg.SetAPIKey(ProviderGoogle, "  AIza-test \n")

	assert.Equal(t, "AIza-test", cfg.CurrentAPIKey())
}

func TestSettersIgnoreInvalidValues(t *testing.T) {
	cfg := Default()

	cfg.SetModelType("llama")
	assert.Equal(t, "", cfg.ModelType)

	cfg.SetTranslationStyle("casual")
	assert.Equal(t, "ビジネス", cfg.TranslationStyle)

	cfg.SetAPIKey("mistral", "key")
	_, ok := cfg.APIKeys["mistral"]
	assert.False(t, ok)

	cfg.SetWindowSize(0, -10)
	assert.Equal(t, 1000, cfg.WindowWidth)
	assert.Equal(t, 600, cfg.WindowHeight)
}

func TestSavedFileIsFlatJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.SetModelType(ModelGPT)
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, field := range []string{
		"model_type", "api_keys", "last_source_lang", "last_target_lang",
		"auto_translate_enabled", "translation_style",
		"last_source_text", "last_target_text", "window_width", "window_height",
	} {
		assert.Contains(t, raw, field)
	}
}
