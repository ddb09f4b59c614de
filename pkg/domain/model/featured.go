package model

// FeaturedRepo is an entry of the landing page gallery
type FeaturedRepo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       string `json:"stars"`
	Path        string `json:"path"`
}

// FeaturedRepos returns the fixed gallery of example repositories
func FeaturedRepos() []FeaturedRepo {
	return []FeaturedRepo{
		{ID: "vscode", Name: "microsoft / vscode", Description: "Visual Studio Code", Stars: "170.1k", Path: "microsoft/vscode"},
		{ID: "mcp-go", Name: "mark3labs / mcp-go", Description: "A Go implementation of the Model Context Protocol (MCP), enabling seamless integration between LLM...", Stars: "3.4k", Path: "mark3labs/mcp-go"},
		{ID: "gumroad", Name: "antiwork / gumroad", Description: "The code that makes Gumroad work.", Stars: "5.2k", Path: "antiwork/gumroad"},
		{ID: "local-deep-researcher", Name: "langchain-ai / local-deep-researcher", Description: "Fully local web research and report writing assistant", Stars: "7.0k", Path: "langchain-ai/local-deep-researcher"},
		{ID: "llama-models", Name: "meta-llama / llama-models", Description: "Utilities intended for use with Llama models.", Stars: "6.8k", Path: "meta-llama/llama-models"},
		{ID: "transformers", Name: "huggingface / transformers", Description: "Transformers: State-of-the-art Machine Learning for PyTorch, TensorFlow, and JAX.", Stars: "143.1k", Path: "huggingface/transformers"},
		{ID: "langchain", Name: "langchain-ai / langchain", Description: "Build context-aware reasoning applications", Stars: "106.8k", Path: "langchain-ai/langchain"},
		{ID: "express", Name: "expressjs / express", Description: "Fast, unopinionated, minimalist web framework for node.", Stars: "60.3k", Path: "expressjs/express"},
		{ID: "lodash", Name: "lodash / lodash", Description: "A modern JavaScript utility library delivering modularity, performance, & extras.", Stars: "60.3k", Path: "lodash/lodash"},
		{ID: "sqlite", Name: "sqlite / sqlite", Description: "Official Git mirror of the SQLite source tree", Stars: "7.7k", Path: "sqlite/sqlite"},
		{ID: "monaco-editor", Name: "microsoft / monaco-editor", Description: "A browser based code editor", Stars: "42.1k", Path: "microsoft/monaco-editor"},
		{ID: "openai-agents-python", Name: "openai / openai-agents-python", Description: "A lightweight, powerful framework for multi-agent workflows", Stars: "8.8k", Path: "openai/openai-agents-python"},
		{ID: "openai-python", Name: "openai / openai-python", Description: "The official Python library for the OpenAI API", Stars: "26.3k", Path: "openai/openai-python"},
		{ID: "anthropic-sdk-python", Name: "anthropics / anthropic-sdk-python", Description: "The official Python library for the Anthropic API", Stars: "1.9k", Path: "anthropics/anthropic-sdk-python"},
	}
}
