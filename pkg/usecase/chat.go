package usecase

import (
	"bytes"
	"context"
	"embed"
	"io"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

//go:embed prompts/*.md
var promptFS embed.FS

// DefaultMaxContextBytes bounds the file tree and README sent to the model
const DefaultMaxContextBytes = 256 * 1024

type chat struct {
	llm             interfaces.LLMProvider
	catalog         interfaces.ModelCatalog
	github          interfaces.GitHubClient
	maxContextBytes int
	prompts         *template.Template
}

// ChatOption configures the chat use case
type ChatOption func(*chat)

// WithGitHubClient enables repository context for GitHub repositories
func WithGitHubClient(client interfaces.GitHubClient) ChatOption {
	return func(c *chat) {
		c.github = client
	}
}

// WithMaxContextBytes sets the size limit of each repository context section
func WithMaxContextBytes(n int) ChatOption {
	return func(c *chat) {
		c.maxContextBytes = n
	}
}

// NewChat creates a ChatUseCase
func NewChat(llm interfaces.LLMProvider, catalog interfaces.ModelCatalog, opts ...ChatOption) (interfaces.ChatUseCase, error) {
	tmpl, err := template.ParseFS(promptFS, "prompts/*.md")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse prompt templates")
	}

	uc := &chat{
		llm:             llm,
		catalog:         catalog,
		maxContextBytes: DefaultMaxContextBytes,
		prompts:         tmpl,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

type systemPromptInput struct {
	RepoURL   string
	RepoName  string
	Language  string
	Iteration int
	FilePath  string
}

type userPromptInput struct {
	History     []model.ChatMessage
	FileTree    string
	Readme      string
	FilePath    string
	FileContent string
	Question    string
}

// StreamChat answers the last user message and writes the answer to w while it is generated
func (uc *chat) StreamChat(ctx context.Context, req *model.ChatRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logger := ctxlog.From(ctx).With("chat_session_id", sessionID)
	ctx = ctxlog.With(ctx, logger)

	provider, modelID, err := uc.selectModel(ctx, req)
	if err != nil {
		return err
	}

	ref, repoCtx, err := uc.buildContext(ctx, req)
	if err != nil {
		return err
	}

	promptName := "chat_system.md"
	iteration := 0
	if req.IsDeepResearch() {
		iteration = req.ResearchIteration()
		switch model.ResearchStageOf(iteration) {
		case model.ResearchStagePlan:
			promptName = "research_plan.md"
		case model.ResearchStageIntermediate:
			promptName = "research_intermediate.md"
		case model.ResearchStageConclusion:
			promptName = "research_conclusion.md"
		}
	}

	systemPrompt, err := uc.render(promptName, systemPromptInput{
		RepoURL:   req.RepoURL,
		RepoName:  ref.Name(),
		Language:  model.LanguageName(req.Language),
		Iteration: iteration,
		FilePath:  req.FilePath,
	})
	if err != nil {
		return err
	}

	repoCtx.History = req.History()
	repoCtx.Question = req.Question()
	userPrompt, err := uc.render("chat_user.md", repoCtx)
	if err != nil {
		return err
	}

	logger.Info("Starting chat completion",
		"repo_url", req.RepoURL,
		"provider", provider,
		"model", modelID,
		"deep_research", req.IsDeepResearch(),
		"iteration", iteration,
		"prompt_length", len(userPrompt),
	)

	client, err := uc.llm.NewClient(ctx, provider, modelID)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM client",
			goerr.V("provider", provider),
			goerr.V("model", modelID))
	}

	session, err := client.NewSession(ctx, gollem.WithSessionSystemPrompt(systemPrompt))
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session")
	}

	stream, err := session.Stream(ctx, []gollem.Input{gollem.Text(userPrompt)})
	if err != nil {
		return goerr.Wrap(err, "failed to start LLM stream")
	}

	var written int
	for resp := range stream {
		if resp.Error != nil {
			return goerr.Wrap(resp.Error, "LLM stream failed", goerr.V("written_bytes", written))
		}
		for _, text := range resp.Texts {
			n, err := io.WriteString(w, text)
			written += n
			if err != nil {
				return goerr.Wrap(err, "failed to write chat response")
			}
		}
	}

	logger.Info("Chat completion finished", "written_bytes", written)
	return nil
}

func (uc *chat) selectModel(ctx context.Context, req *model.ChatRequest) (string, string, error) {
	cfg := uc.catalog.ModelConfig(ctx)

	provider := req.Provider
	if provider == "" {
		provider = cfg.DefaultProvider
	}

	modelID := req.Model
	if modelID == "" {
		p := cfg.FindProvider(provider)
		if p == nil || p.DefaultModel() == "" {
			return "", "", goerr.New("no model available for provider",
				goerr.V("provider", provider),
				goerr.T(types.ErrTagInvalidArgument))
		}
		modelID = p.DefaultModel()
	}

	return provider, modelID, nil
}

// buildContext collects the file tree, README and focused file of the
// repository. Remote platforms without a client only get the question.
func (uc *chat) buildContext(ctx context.Context, req *model.ChatRequest) (*model.RepoRef, userPromptInput, error) {
	var input userPromptInput
	logger := ctxlog.From(ctx)

	platform := model.PlatformGitHub
	if req.Type != "" && req.Type != string(model.RepoTypeLocal) {
		p, err := model.ParsePlatform(req.Type)
		if err != nil {
			return nil, input, err
		}
		platform = p
	}

	ref, err := model.ParseRepoRef(req.RepoURL, platform)
	if err != nil {
		return nil, input, err
	}

	filter := model.DefaultFileFilter().Merge(model.FileFilter{
		ExcludedDirs:  model.ParseFilterList(req.ExcludedDirs),
		ExcludedFiles: model.ParseFilterList(req.ExcludedFiles),
	})

	switch {
	case ref.Type == model.RepoTypeLocal:
		structure, err := walkLocalRepository(ref.LocalPath, filter)
		if err != nil {
			return nil, input, err
		}
		input.FileTree = structure.FileTree
		input.Readme = structure.Readme

		if req.FilePath != "" {
			content, err := readLocalFile(ref.LocalPath, req.FilePath)
			if err != nil {
				return nil, input, err
			}
			input.FilePath = req.FilePath
			input.FileContent = content
		}

	case ref.Platform() == model.PlatformGitHub && uc.github != nil:
		structure, err := uc.github.GetStructure(ctx, ref.Owner, ref.Repo, req.Token)
		if err != nil {
			return nil, input, goerr.Wrap(err, "failed to get repository structure")
		}
		pf := newPathFilter(filter)
		input.FileTree = strings.Join(pf.filterPaths(strings.Split(structure.FileTree, "\n")), "\n")
		input.Readme = structure.Readme

		if req.FilePath != "" {
			content, err := uc.github.GetFileContent(ctx, ref.Owner, ref.Repo, req.FilePath, req.Token)
			if err != nil {
				return nil, input, goerr.Wrap(err, "failed to get file content", goerr.V("path", req.FilePath))
			}
			input.FilePath = req.FilePath
			input.FileContent = content
		}

	default:
		logger.Warn("Repository context is not available, answering without it",
			"repo_url", req.RepoURL,
			"platform", ref.Platform(),
		)
	}

	input.FileTree = truncate(input.FileTree, uc.maxContextBytes)
	input.Readme = truncate(input.Readme, uc.maxContextBytes)
	input.FileContent = truncate(input.FileContent, uc.maxContextBytes)

	return ref, input, nil
}

func (uc *chat) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := uc.prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template", goerr.V("name", name))
	}
	return buf.String(), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
