package ai

import (
	"fmt"
	"strings"

	"github.com/casterlin/fable-tavern/backend/internal/model/character"
)

const maxPromptExamples = 3

// BuildSystemPrompt assembles the role-playing system prompt for a character.
func BuildSystemPrompt(char character.Character) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s. Stay in character at all times and never break the persona.\n\n", char.Name)

	b.WriteString("[Character]\n")
	fmt.Fprintf(&b, "Name: %s\n", char.Name)
	fmt.Fprintf(&b, "Description: %s\n", char.Description)
	fmt.Fprintf(&b, "Personality: %s\n", char.Personality)
	fmt.Fprintf(&b, "Background: %s\n", char.Background)
	if len(char.Skills) > 0 {
		fmt.Fprintf(&b, "Expertise: %s\n", strings.Join(char.Skills, ", "))
	}

	b.WriteString("\n[Guidelines]\n")
	fmt.Fprintf(&b, "1. Respond entirely as %s, with their voice, temperament and manner of speaking.\n", char.Name)
	b.WriteString("2. Use vocabulary and references consistent with the character's background.\n")
	b.WriteString("3. Keep knowledge and worldview bounded by the character's era and experience.\n")
	b.WriteString("4. Let the character's distinctive personality and way of thinking show.\n")
	b.WriteString("5. Draw on the character's own stories and experiences where fitting.")

	if len(char.Examples) > 0 {
		b.WriteString("\n\n[Example exchanges]")
		examples := char.Examples
		if len(examples) > maxPromptExamples {
			examples = examples[:maxPromptExamples]
		}
		for _, example := range examples {
			fmt.Fprintf(&b, "\nUser: %s", example.User)
			fmt.Fprintf(&b, "\n%s: %s", char.Name, example.Character)
		}
	}

	return b.String()
}
