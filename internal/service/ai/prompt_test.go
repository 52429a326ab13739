package ai

import (
	"strings"
	"testing"

	"github.com/casterlin/fable-tavern/backend/internal/model/character"
)

func TestBuildSystemPrompt(t *testing.T) {
	char := character.Character{
		ID:          "socrates",
		Name:        "Socrates",
		Description: "Athenian philosopher",
		Personality: "Wise, questioning",
		Background:  "Spent his life in the agora.",
		Skills:      []string{"Dialectics", "Ethics"},
		Examples: []character.ChatExample{
			{User: "What is justice?", Character: "Let us examine that together."},
		},
	}

	prompt := BuildSystemPrompt(char)

	for _, want := range []string{
		"You are Socrates.",
		"Athenian philosopher",
		"Wise, questioning",
		"Dialectics, Ethics",
		"User: What is justice?",
		"Socrates: Let us examine that together.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPromptCapsExamples(t *testing.T) {
	char := character.Character{Name: "Echo"}
	for i := 0; i < 6; i++ {
		char.Examples = append(char.Examples, character.ChatExample{User: "q", Character: "a"})
	}

	prompt := BuildSystemPrompt(char)
	if got := strings.Count(prompt, "User: q"); got != maxPromptExamples {
		t.Fatalf("expected %d examples in prompt, got %d", maxPromptExamples, got)
	}
}

func TestBuildSystemPromptNoExamples(t *testing.T) {
	prompt := BuildSystemPrompt(character.Character{Name: "Echo"})
	if strings.Contains(prompt, "[Example exchanges]") {
		t.Fatal("prompt should omit the examples section when there are none")
	}
}
