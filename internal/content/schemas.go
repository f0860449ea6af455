package content

import "google.golang.org/genai"

// Model identifiers used by the content service.
const (
	textModel  = "gemini-3-flash-preview"
	imageModel = "gemini-2.5-flash-image"
	ttsModel   = "gemini-2.5-flash-preview-tts"
)

// sharedSafetyPrompt is appended to every system instruction.
const sharedSafetyPrompt = `
STRICT CONTENT ARCHITECTURE:
1. PROHIBITED: Do not mention, describe, or reference reproductive organs, sexualized body parts, or biological body processes.
2. PROHIBITED: Do not include ANY warning messages or meta-commentary.
3. ENFORCEMENT: Act as a support unit. If a topic is sensitive, pivot to ergonomic, technical, or workflow-based engineering.
4. TONE: Professional, grounded, technical.
`

// supportUnitPrompt drives the mood-support response.
const supportUnitPrompt = `
You are AllEase Support V3, a calming and sophisticated personal assistance unit.
Task: Provide a comforting, validation-focused response to the user's current mood.
Constraints:
- LENGTH: 60 to 90 words. Be eloquent and deeply supportive.
- TONE: Serene, validating, and professional.
- CONTENT: Acknowledge their state (especially if it is "Angry" or "Sad"), explain its natural place in the human optimization journey, and offer a soothing, technical perspective on recovery.
- IMAGE: Provide a prompt for a "serene real-world environment" including cityscapes (e.g., "a quiet rainy neon street in Tokyo at midnight", "a sunlit empty library in a classic city", "a calm harbor at dawn", "misty metropolitan park").
Output strictly in JSON.
`

// supportSchema shapes the mood-support JSON response.
func supportSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"supportiveText":   {Type: genai.TypeString},
			"sereneImagePrompt": {Type: genai.TypeString},
		},
		Required: []string{"supportiveText", "sereneImagePrompt"},
	}
}

// topicSchema shapes the knowledge-structure JSON response.
func topicSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic":   {Type: genai.TypeString},
			"summary": {Type: genai.TypeString},
			"subtopics": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"title", "description"},
				},
			},
		},
		Required: []string{"topic", "summary", "subtopics"},
	}
}

// quizSchema shapes the quiz JSON response.
func quizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question":     {Type: genai.TypeString},
				"options":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"correctIndex": {Type: genai.TypeInteger},
				"explanation":  {Type: genai.TypeString},
			},
			Required: []string{"question", "options", "correctIndex", "explanation"},
		},
	}
}

// activitySchema shapes the activity-guide JSON response.
func activitySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overview": {Type: genai.TypeString},
			"steps": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"stepNumber":  {Type: genai.TypeInteger},
						"instruction": {Type: genai.TypeString},
						"detail":      {Type: genai.TypeString},
						"imagePrompt": {Type: genai.TypeString},
						"subSteps": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"id":          {Type: genai.TypeString},
									"label":       {Type: genai.TypeString},
									"description": {Type: genai.TypeString},
								},
								Required: []string{"id", "label", "description"},
							},
						},
					},
					Required: []string{"stepNumber", "instruction", "detail", "imagePrompt", "subSteps"},
				},
			},
		},
		Required: []string{"overview", "steps"},
	}
}
