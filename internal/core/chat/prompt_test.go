package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMedicalPrompt(t *testing.T) {
	prompt := BuildMedicalPrompt("=== CONTEXT BLOCK ===", "What helps with a sore throat?")

	assert.True(t, strings.HasPrefix(prompt, "You are an experienced doctor"))
	assert.Contains(t, prompt, "COMMUNICATION STYLE")
	assert.Contains(t, prompt, "CRITICAL RULES:")
	assert.Contains(t, prompt, "=== CONTEXT BLOCK ===")
	assert.Contains(t, prompt, "CURRENT PATIENT QUESTION: What helps with a sore throat?")

	// コンテキストは質問より前に置かれる
	assert.Less(t, strings.Index(prompt, "=== CONTEXT BLOCK ==="), strings.Index(prompt, "CURRENT PATIENT QUESTION"))
}

func TestDisclaimerText(t *testing.T) {
	assert.True(t, strings.HasPrefix(Disclaimer, "\n\nMEDICAL DISCLAIMER:"))
	assert.Contains(t, Disclaimer, "consult with a healthcare provider")
}
