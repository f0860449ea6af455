// Package content generates supportive text, learning structures, quizzes,
// activity guides and speech audio through the Gemini API. Every operation
// degrades to a placeholder result when the remote call fails so callers
// never see a hard error for a missing nicety.
package content

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/allease/allease-core/internal/config"
)

// Placeholder values returned when generation fails.
const (
	FallbackSupportText = "Calming protocol initiated."
	FallbackExplanation = "Detailed data stream unavailable."
)

// generator is the slice of the genai model surface the service uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Subtopic is one branch of a generated topic structure.
type Subtopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TopicStructure is the generated knowledge map for a query.
type TopicStructure struct {
	Topic     string     `json:"topic"`
	Summary   string     `json:"summary"`
	Subtopics []Subtopic `json:"subtopics"`
}

// QuizQuestion is one generated assessment item.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// SubStep is a fine-grained action inside an activity step.
type SubStep struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ActivityStep is one step of a generated activity protocol.
type ActivityStep struct {
	StepNumber  int       `json:"stepNumber"`
	Instruction string    `json:"instruction"`
	Detail      string    `json:"detail"`
	ImagePrompt string    `json:"imagePrompt"`
	SubSteps    []SubStep `json:"subSteps"`
	Visual      string    `json:"visual,omitempty"` // data URI, empty when image generation failed
}

// ActivityGuide is a generated multi-step activity protocol.
type ActivityGuide struct {
	Overview string         `json:"overview"`
	Steps    []ActivityStep `json:"steps"`
}

// SupportResult carries the supportive text and an optional scene image.
type SupportResult struct {
	Text   string `json:"text"`
	Visual string `json:"visual,omitempty"` // data URI, empty when image generation failed
}

// Service talks to the Gemini models.
type Service struct {
	models generator
}

// New builds a Service from the configured API key.
func New(ctx context.Context, cfg config.GeminiConfig) (*Service, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("content: create client: %w", err)
	}
	return &Service{models: client.Models}, nil
}

// SupportiveContent returns a calming response for the given mood plus a
// best-effort serene scene image.
func (s *Service) SupportiveContent(ctx context.Context, mood string) (SupportResult, error) {
	resp, err := s.models.GenerateContent(ctx,
		textModel,
		genai.Text(fmt.Sprintf("The user's neural state is: %q. Execute calming protocol.", mood)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(supportUnitPrompt+sharedSafetyPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    supportSchema(),
		})
	if err != nil {
		return SupportResult{}, fmt.Errorf("content: supportive content: %w", err)
	}

	var data struct {
		SupportiveText    string `json:"supportiveText"`
		SereneImagePrompt string `json:"sereneImagePrompt"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &data); err != nil {
		log.Warnf("content: supportive content parse failed: %v", err)
	}

	out := SupportResult{Text: data.SupportiveText}
	if out.Text == "" {
		out.Text = FallbackSupportText
	}
	out.Visual = s.generateImage(ctx,
		"High-resolution professional photography, ultra-realistic, serene and silent real-world city or nature environment, soft atmospheric cinematic lighting, 8k, peaceful: "+data.SereneImagePrompt,
		"16:9")
	return out, nil
}

// TopicStructure maps a query into a summary and key subtopics.
func (s *Service) TopicStructure(ctx context.Context, query string) (TopicStructure, error) {
	resp, err := s.models.GenerateContent(ctx,
		textModel,
		genai.Text(fmt.Sprintf("Analyze and structure knowledge for: %q.", query)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("Strategic knowledge extraction. Map the domain into summary and 4 key subtopics. "+sharedSafetyPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    topicSchema(),
		})
	if err != nil {
		return TopicStructure{}, fmt.Errorf("content: topic structure: %w", err)
	}

	var out TopicStructure
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		return TopicStructure{}, fmt.Errorf("content: topic structure parse: %w", err)
	}
	return out, nil
}

// SubtopicExplanation expands one subtopic within its parent topic.
func (s *Service) SubtopicExplanation(ctx context.Context, topic, subtopic string) (string, error) {
	resp, err := s.models.GenerateContent(ctx,
		textModel,
		genai.Text(fmt.Sprintf("Deep dive context for %q in the context of %q.", subtopic, topic)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("Strategic insight expansion. Technical, professional, and max 100 words. "+sharedSafetyPrompt, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("content: subtopic explanation: %w", err)
	}
	if text := resp.Text(); text != "" {
		return text, nil
	}
	return FallbackExplanation, nil
}

// GenerateQuiz builds a five question assessment for a topic.
func (s *Service) GenerateQuiz(ctx context.Context, topic string) ([]QuizQuestion, error) {
	resp, err := s.models.GenerateContent(ctx,
		textModel,
		genai.Text(fmt.Sprintf("Create a 5-question technical quiz for domain: %q.", topic)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("Assessment protocol. Output as JSON array of technical questions. "+sharedSafetyPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    quizSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("content: generate quiz: %w", err)
	}

	var out []QuizQuestion
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		return nil, fmt.Errorf("content: generate quiz parse: %w", err)
	}
	return out, nil
}

// ActivityGuide builds a multi-phase optimization protocol for an activity,
// with a best-effort illustration per step.
func (s *Service) ActivityGuide(ctx context.Context, activity string) (ActivityGuide, error) {
	resp, err := s.models.GenerateContent(ctx,
		textModel,
		genai.Text(fmt.Sprintf("Activity: %q. 15-step protocol.", activity)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("STRICT JSON ONLY. 3-phase optimization protocol. Each phase has 5 actionable steps. Focus on high-performance real-world efficiency. "+sharedSafetyPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    activitySchema(),
		})
	if err != nil {
		return ActivityGuide{}, fmt.Errorf("content: activity guide: %w", err)
	}

	var guide ActivityGuide
	if err := json.Unmarshal([]byte(resp.Text()), &guide); err != nil {
		return ActivityGuide{}, fmt.Errorf("content: activity guide parse: %w", err)
	}

	for i := range guide.Steps {
		guide.Steps[i].Visual = s.generateImage(ctx,
			fmt.Sprintf("High-quality technical illustration for %s optimization, professional, clean workspace: %s", activity, guide.Steps[i].ImagePrompt),
			"4:3")
	}
	return guide, nil
}

// Speak renders a phrase as WAV audio using the TTS model.
func (s *Service) Speak(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.models.GenerateContent(ctx,
		ttsModel,
		genai.Text("Broadcasting command: "+text),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: "Kore"},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("content: speak: %w", err)
	}

	pcm := firstInlineData(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("content: speak: no audio in response")
	}
	return WAVFromPCM16(pcm, speechSampleRate, speechChannels), nil
}

// generateImage returns a data URI for the prompt, or "" when the image
// model fails. Image generation is decorative and never fails the caller.
func (s *Service) generateImage(ctx context.Context, prompt, aspectRatio string) string {
	resp, err := s.models.GenerateContent(ctx,
		imageModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: aspectRatio},
		})
	if err != nil {
		log.Warnf("content: image generation failed: %v", err)
		return ""
	}
	data := firstInlineData(resp)
	if len(data) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64Encode(data)
}

// firstInlineData finds the first binary blob in a response.
func firstInlineData(resp *genai.GenerateContentResponse) []byte {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
