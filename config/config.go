package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	ModelGPT         = "gpt"
	ModelGPTMini     = "gpt-mini"
	ModelClaude      = "claude"
	ModelClaudeHaiku = "claude-haiku"
	ModelGemini      = "gemini"
	ModelGeminiFlash = "gemini-flash"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

var ModelTypes = []string{
	ModelGPT, ModelGPTMini,
	ModelClaude, ModelClaudeHaiku,
	ModelGemini, ModelGeminiFlash,
}

var Styles = []string{"ビジネス", "同僚", "友人"}

// Config is the flat settings record persisted as config.json.
type Config struct {
	ModelType            string            `json:"model_type"`
	APIKeys              map[string]string `json:"api_keys"`
	LastSourceLang       string            `json:"last_source_lang"`
	LastTargetLang       string            `json:"last_target_lang"`
	AutoTranslateEnabled bool              `json:"auto_translate_enabled"`
	TranslationStyle     string            `json:"translation_style"`
	LastSourceText       string            `json:"last_source_text"`
	LastTargetText       string            `json:"last_target_text"`
	WindowWidth          int               `json:"window_width"`
	WindowHeight         int               `json:"window_height"`

	path string

	// Keys written by newer versions, carried through Save untouched.
	extra map[string]json.RawMessage
}

func Default() *Config {
	return &Config{
		ModelType: "",
		APIKeys: map[string]string{
			ProviderOpenAI:    "",
			ProviderAnthropic: "",
			ProviderGoogle:    "",
		},
		LastSourceLang:   "Japanese",
		LastTargetLang:   "English",
		TranslationStyle: "ビジネス",
		WindowWidth:      1000,
		WindowHeight:     600,
	}
}

// Dir returns the application data directory (~/.deepyami), creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".deepyami")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path. A missing, unreadable or corrupt file yields
// defaults so the app always starts; a present file is merged over the defaults
// so fields added in later versions keep their default values. The legacy model
// name "gpt4" is migrated to "gpt".
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("failed to read config, using defaults")
		}
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		logrus.WithError(err).Warnf("corrupt config at %s, using defaults", path)
		cfg = Default()
		cfg.path = path
		return cfg, nil
	}

	if cfg.APIKeys == nil {
		cfg.APIKeys = Default().APIKeys
	}
	for _, p := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGoogle} {
		if _, ok := cfg.APIKeys[p]; !ok {
			cfg.APIKeys[p] = ""
		}
	}

	if cfg.ModelType == "gpt4" {
		logrus.Info("migrating legacy model name gpt4 -> gpt")
		cfg.ModelType = ModelGPT
	}

	cfg.extra = extraFields(data)

	return cfg, nil
}

// extraFields returns the keys of data that the Config struct does not know,
// so a config written by a newer version survives a save round trip.
func extraFields(data []byte) map[string]json.RawMessage {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	known, err := json.Marshal(Default())
	if err != nil {
		return nil
	}
	var knownKeys map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownKeys); err != nil {
		return nil
	}

	for k := range knownKeys {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// LoadDefault loads the config from the standard location, after reading an
// optional .env file from the working directory.
func LoadDefault() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to load .env")
	}

	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

var envKeyNames = map[string]string{
	ProviderOpenAI:    "DEEPYAMI_OPENAI_API_KEY",
	ProviderAnthropic: "DEEPYAMI_ANTHROPIC_API_KEY",
	ProviderGoogle:    "DEEPYAMI_GOOGLE_API_KEY",
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}

	var payload any = c
	if len(c.extra) > 0 {
		base, err := json.Marshal(c)
		if err != nil {
			return err
		}
		merged := map[string]json.RawMessage{}
		if err := json.Unmarshal(base, &merged); err != nil {
			return err
		}
		for k, v := range c.extra {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		payload = merged
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}

	// API keys live in this file, keep it owner-only.
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Path() string {
	return c.path
}

// Provider returns the provider name that serves the selected model type.
func (c *Config) Provider() string {
	switch c.ModelType {
	case ModelGPT, ModelGPTMini:
		return ProviderOpenAI
	case ModelClaude, ModelClaudeHaiku:
		return ProviderAnthropic
	case ModelGemini, ModelGeminiFlash:
		return ProviderGoogle
	}
	return ""
}

// IsConfigured reports whether a model is selected and the matching provider
// has a non-blank API key.
func (c *Config) IsConfigured() bool {
	return c.CurrentAPIKey() != ""
}

// CurrentAPIKey returns the API key for the selected model's provider, or ""
// when the model or key is missing. A DEEPYAMI_*_API_KEY environment variable
// takes precedence over the stored key and is never written to the file.
func (c *Config) CurrentAPIKey() string {
	provider := c.Provider()
	if provider == "" {
		return ""
	}
	if v := strings.TrimSpace(os.Getenv(envKeyNames[provider])); v != "" {
		return v
	}
	return strings.TrimSpace(c.APIKeys[provider])
}

func (c *Config) SetModelType(modelType string) {
	for _, m := range ModelTypes {
		if m == modelType {
			c.ModelType = modelType
			return
		}
	}
}

func (c *Config) SetAPIKey(provider, key string) {
	switch provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle:
		c.APIKeys[provider] = key
	}
}

func (c *Config) SetTranslationStyle(style string) {
	for _, s := range Styles {
		if s == style {
			c.TranslationStyle = style
			return
		}
	}
}

func (c *Config) SetLastLanguages(source, target string) {
	c.LastSourceLang = source
	c.LastTargetLang = target
}

func (c *Config) SetLastTexts(source, target string) {
	c.LastSourceText = source
	c.LastTargetText = target
}

func (c *Config) SetWindowSize(width, height int) {
	if width > 0 && height > 0 {
		c.WindowWidth = width
		c.WindowHeight = height
	}
}
