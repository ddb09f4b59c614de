package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// ChatRole is the author of a chat message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// DeepResearchTag marks a conversation as a deep research when it prefixes a
// user message. Once tagged, the conversation stays in research mode for
// follow-up questions that do not repeat the tag.
const DeepResearchTag = "[DEEP RESEARCH]"

// deepResearchFinalIteration is the iteration from which the conclusion is written
const deepResearchFinalIteration = 5

// ChatMessage is one turn of a conversation about a repository
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is the body of a streaming chat request
type ChatRequest struct {
	RepoURL       string        `json:"repo_url"`
	Type          string        `json:"type,omitempty"`
	Token         string        `json:"token,omitempty" masq:"secret"`
	Messages      []ChatMessage `json:"messages"`
	FilePath      string        `json:"filePath,omitempty"`
	Provider      string        `json:"provider,omitempty"`
	Model         string        `json:"model,omitempty"`
	Language      string        `json:"language,omitempty"`
	ExcludedDirs  string        `json:"excluded_dirs,omitempty"`
	ExcludedFiles string        `json:"excluded_files,omitempty"`
	DeepResearch  bool          `json:"deep_research,omitempty"`
}

// Validate checks that the conversation ends with a user question
func (r *ChatRequest) Validate() error {
	if r.RepoURL == "" {
		return goerr.New("repo_url is required", goerr.T(types.ErrTagInvalidArgument))
	}
	if len(r.Messages) == 0 {
		return goerr.New("no messages provided", goerr.T(types.ErrTagInvalidArgument))
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role != ChatRoleUser {
		return goerr.New("last message must be from the user",
			goerr.V("role", last.Role),
			goerr.T(types.ErrTagInvalidArgument),
		)
	}
	if strings.TrimSpace(last.Content) == "" {
		return goerr.New("question is empty", goerr.T(types.ErrTagInvalidArgument))
	}
	return nil
}

// IsDeepResearch reports whether the request asks for a multi-turn research
func (r *ChatRequest) IsDeepResearch() bool {
	if r.DeepResearch {
		return true
	}
	for _, msg := range r.Messages {
		if msg.Role == ChatRoleUser && hasDeepResearchTag(msg.Content) {
			return true
		}
	}
	return false
}

func hasDeepResearchTag(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), DeepResearchTag)
}

// Question returns the last user message without the deep research tag
func (r *ChatRequest) Question() string {
	last := strings.TrimSpace(r.Messages[len(r.Messages)-1].Content)
	return strings.TrimSpace(strings.TrimPrefix(last, DeepResearchTag))
}

// History returns all messages before the question
func (r *ChatRequest) History() []ChatMessage {
	return r.Messages[:len(r.Messages)-1]
}

// ResearchStage is the phase of a deep research conversation
type ResearchStage string

const (
	ResearchStagePlan         ResearchStage = "plan"
	ResearchStageIntermediate ResearchStage = "intermediate"
	ResearchStageConclusion   ResearchStage = "conclusion"
)

// ResearchIteration returns the 1-based iteration of a deep research
// conversation, counted from the assistant replies so far
func (r *ChatRequest) ResearchIteration() int {
	n := 1
	for _, msg := range r.Messages {
		if msg.Role == ChatRoleAssistant {
			n++
		}
	}
	return n
}

// ResearchStageOf maps an iteration to its stage
func ResearchStageOf(iteration int) ResearchStage {
	switch {
	case iteration <= 1:
		return ResearchStagePlan
	case iteration >= deepResearchFinalIteration:
		return ResearchStageConclusion
	default:
		return ResearchStageIntermediate
	}
}

var languageNames = map[string]string{
	"en": "English",
	"ja": "Japanese (日本語)",
	"zh": "Mandarin Chinese (中文)",
	"es": "Spanish (Español)",
	"kr": "Korean (한국어)",
	"vi": "Vietnamese (Tiếng Việt)",
}

// LanguageName returns the name used to instruct the model about the reply
// language. Unknown codes fall back to English.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames["en"]
}
