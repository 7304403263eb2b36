// Package tokenizer estimates token counts with tiktoken encodings and caches
// per-file results.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters.
type Config struct {
	Model string
}

const (
	defaultModel           = "gpt-4o"
	defaultEncodingName    = "cl100k_base"
	fallbackEncodingName   = "p50k_base"
	initializeTokenizerFmt = "initialize tokenizer: %w"
)

// NewCounter returns a Counter for the requested model together with the name
// of the encoding or model actually used. OpenAI model names use their own
// encoding; any other name uses cl100k_base, falling back to p50k_base.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	lowerModel := strings.ToLower(model)

	if isOpenAIModel(lowerModel) {
		encoding, err := tiktoken.EncodingForModel(lowerModel)
		if err == nil && encoding != nil {
			return tiktokenCounter{encoding: encoding, name: lowerModel}, model, nil
		}
	}

	encoding, defaultErr := tiktoken.GetEncoding(defaultEncodingName)
	if defaultErr == nil {
		return tiktokenCounter{encoding: encoding, name: defaultEncodingName}, defaultEncodingName, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(fallbackEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf(initializeTokenizerFmt, fallbackErr)
	}
	return tiktokenCounter{encoding: fallback, name: fallbackEncodingName}, fallbackEncodingName, nil
}

var openAIModelPrefixes = []string{"gpt-", "o1", "o3", "o4", "text-embedding", "davinci", "curie", "babbage", "ada", "code-"}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

var errNilEncoding = errors.New("tiktoken encoding not initialized")

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string { return counter.name }

// CountString encodes input with no special tokens disallowed, so text that
// merely mentions a special token is counted instead of rejected.
func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoding
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
