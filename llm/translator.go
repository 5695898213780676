package llm

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Languages the UI offers as translation targets.
var Languages = []string{
	"Japanese",
	"Chinese-Simplified",
	"Chinese-Traditional",
	"Korean",
	"English",
}

// languageNames maps UI language identifiers to the display names used in the
// prompt. Unknown identifiers pass through unchanged.
var languageNames = map[string]string{
	"Japanese":            "日本語",
	"Chinese-Simplified":  "中国語（簡体字）",
	"Chinese-Traditional": "中国語（繁体字）",
	"Korean":              "韓国語",
	"English":             "英語",
}

var styleInstructions = map[string]string{
	"ビジネス": "formal business tone with polite and professional language",
	"同僚":   "casual professional tone suitable for colleagues",
	"友人":   "friendly and casual tone suitable for friends",
}

const defaultStyle = "ビジネス"

const translateSystemPrompt = `You are a professional translator with expertise in multiple languages.
Your task is to translate text accurately while maintaining the appropriate tone and style.
Automatically detect the source language and translate to the target language.
Use %s.
Provide ONLY the translation without any explanations, notes, or additional text.`

const translateUserPrompt = `Translate the following text to %s.

Text to translate:
%s`

const proofreadSystemPrompt = `You are a professional proofreader and editor.
Your task is to proofread and correct the text while maintaining the original language.
Fix grammar, spelling, punctuation, and improve clarity where needed.
Use %s.
Provide ONLY the corrected text without any explanations or notes.`

const proofreadUserPrompt = `Proofread and correct the following text in its original language:

%s`

const (
	maxAttempts = 3
	retryPause  = 2 * time.Second

	cacheTTL     = 15 * time.Minute
	cacheCleanup = 30 * time.Minute
)

// Translator formats prompts, calls the provider client and cleans the reply.
// Identical requests within the cache TTL are answered from memory, so the
// auto-translate debounce does not re-bill the same text.
type Translator struct {
	client    Client
	modelType string
	results   *cache.Cache
}

func NewTranslator(client Client, modelType string) *Translator {
	return &Translator{
		client:    client,
		modelType: modelType,
		results:   cache.New(cacheTTL, cacheCleanup),
	}
}

func (t *Translator) ModelType() string {
	return t.modelType
}

// Translate translates text into targetLang with the given politeness style.
// The source language is detected by the model. Empty input returns "" without
// an API call.
func (t *Translator) Translate(ctx context.Context, text, targetLang, style string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	key := t.cacheKey("translate", targetLang, style, text)
	if cached, found := t.results.Get(key); found {
		return cached.(string), nil
	}

	langName := languageNames[targetLang]
	if langName == "" {
		langName = targetLang
	}

	system := fmt.Sprintf(translateSystemPrompt, t.styleInstruction(style))
	user := fmt.Sprintf(translateUserPrompt, langName, text)

	result, err := t.complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	t.results.SetDefault(key, result)
	return result, nil
}

// Proofread corrects the text in its own language, keeping the style.
func (t *Translator) Proofread(ctx context.Context, text, style string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	key := t.cacheKey("proofread", "", style, text)
	if cached, found := t.results.Get(key); found {
		return cached.(string), nil
	}

	system := fmt.Sprintf(proofreadSystemPrompt, t.styleInstruction(style))
	user := fmt.Sprintf(proofreadUserPrompt, text)

	result, err := t.complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("proofread: %w", err)
	}

	t.results.SetDefault(key, result)
	return result, nil
}

// TestConnection runs a tiny translation to verify the model and key work.
func (t *Translator) TestConnection(ctx context.Context) (bool, string) {
	result, err := t.Translate(ctx, "Hello", "Japanese", defaultStyle)
	if err != nil {
		return false, fmt.Sprintf("接続エラー: %v", err)
	}
	if result == "" {
		return false, "翻訳結果が空です"
	}
	return true, "接続テスト成功"
}

func (t *Translator) complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := t.client.Complete(ctx, system, user)
		if err == nil {
			return cleanResponse(result), nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts {
			break
		}

		logrus.WithError(err).Warnf("attempt %d/%d failed, retrying", attempt, maxAttempts)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryPause):
		}
	}

	return "", lastErr
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	// Network-level failures (refused connection, reset, timeout).
	return true
}

func (t *Translator) styleInstruction(style string) string {
	if instr, ok := styleInstructions[style]; ok {
		return instr
	}
	return styleInstructions[defaultStyle]
}

func (t *Translator) cacheKey(kind, targetLang, style, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s|%s|%s|%s|%x", kind, t.modelType, targetLang, style, sum[:8])
}

// cleanResponse strips wrapping the model sometimes adds around the bare
// translation: code fences, triple quotes, surrounding quote pairs.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```text")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	s = strings.TrimPrefix(s, `"""`)
	s = strings.TrimSuffix(s, `"""`)
	s = strings.TrimSpace(s)

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	return s
}
