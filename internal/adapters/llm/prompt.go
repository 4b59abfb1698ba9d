package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

const defaultSystemInstruction = `You are a friendly and efficient AI assistant for 'GourmetGo', a food delivery service.
Your goal is to help users decide what to eat, build their order, and schedule a delivery time.
Keep your responses concise, friendly, and helpful.
Ask clarifying questions one at a time (e.g., 'What would you like to order?', then 'Anything else?', then 'What time would you like it delivered?').
When the user has confirmed their order is complete and ready to finalize, you MUST respond with ONLY a JSON object in the following format, enclosed in triple backticks. Do not add any other text before or after the JSON block.

Example interaction:
User: I want to finalize my order.
You: ` + "```json" + `
{
  "items": [
    { "name": "Large Pepperoni Pizza", "quantity": 1, "notes": "extra cheese" },
    { "name": "Coke", "quantity": 2, "notes": "diet" }
  ],
  "deliveryTime": "7:30 PM"
}
` + "```" + `

If the user doesn't specify a quantity, assume 1. If details are missing, you can ask for them, but if they finalize without providing them, use null for that value in the JSON.`

const defaultWelcome = "Welcome to GourmetGo! 🍔🍕🥤\n\nI'm your personal ordering assistant. What are you in the mood for today?"

// hiddenSeedTurn opens the history so the welcome can sit in a model turn.
const hiddenSeedTurn = "Initial instruction, do not display."

// Profile is the prompt material used to open every chat session.
type Profile struct {
	SystemInstruction string  `yaml:"system_instruction"`
	Welcome           string  `yaml:"welcome"`
	Temperature       float32 `yaml:"temperature"`
}

// DefaultProfile returns the built-in GourmetGo prompt.
func DefaultProfile() Profile {
	return Profile{
		SystemInstruction: defaultSystemInstruction,
		Welcome:           defaultWelcome,
		Temperature:       0.7,
	}
}

// LoadProfile reads a YAML profile from path. Empty fields fall back to the
// built-in defaults. An empty path returns DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading prompt profile: %w", err)
	}

	var override Profile
	if err := yaml.Unmarshal(b, &override); err != nil {
		return Profile{}, fmt.Errorf("parsing prompt profile %s: %w", path, err)
	}

	if s := strings.TrimSpace(override.SystemInstruction); s != "" {
		p.SystemInstruction = override.SystemInstruction
	}
	if s := strings.TrimSpace(override.Welcome); s != "" {
		p.Welcome = override.Welcome
	}
	if override.Temperature > 0 {
		p.Temperature = override.Temperature
	}
	return p, nil
}

// SessionConfig builds the domain.SessionConfig for a new chat. The seed
// is a hidden user turn followed by the welcome as a model turn.
func (p Profile) SessionConfig() domain.SessionConfig {
	return domain.SessionConfig{
		SystemInstruction: p.SystemInstruction,
		Seed: []domain.SeedTurn{
			{Origin: domain.OriginUser, Text: hiddenSeedTurn},
			{Origin: domain.OriginAssistant, Text: p.Welcome},
		},
		Welcome:     p.Welcome,
		Temperature: p.Temperature,
	}
}
