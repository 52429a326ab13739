package character

// ChatExample is a canned user/character exchange used to steer the model's
// voice for a character.
type ChatExample struct {
	User      string `json:"user"`
	Character string `json:"character"`
}

// Character captures the role-playing attributes exposed to the frontend and
// fed into the backend system prompt. Immutable once loaded.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Personality string        `json:"personality"`
	Background  string        `json:"background"`
	Category    string        `json:"category"`
	Greeting    string        `json:"greeting"`
	Skills      []string      `json:"skills,omitempty"`
	Examples    []ChatExample `json:"examples,omitempty"`
}
