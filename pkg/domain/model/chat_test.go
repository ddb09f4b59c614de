package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
)

func TestChatRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     model.ChatRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: model.ChatRequest{
				RepoURL:  "https://github.com/a/b",
				Messages: []model.ChatMessage{{Role: model.ChatRoleUser, Content: "What is this?"}},
			},
		},
		{
			name:    "no messages",
			req:     model.ChatRequest{RepoURL: "https://github.com/a/b"},
			wantErr: true,
		},
		{
			name: "missing repo url",
			req: model.ChatRequest{
				Messages: []model.ChatMessage{{Role: model.ChatRoleUser, Content: "hi"}},
			},
			wantErr: true,
		},
		{
			name: "last message from assistant",
			req: model.ChatRequest{
				RepoURL: "https://github.com/a/b",
				Messages: []model.ChatMessage{
					{Role: model.ChatRoleUser, Content: "hi"},
					{Role: model.ChatRoleAssistant, Content: "hello"},
				},
			},
			wantErr: true,
		},
		{
			name: "blank question",
			req: model.ChatRequest{
				RepoURL:  "https://github.com/a/b",
				Messages: []model.ChatMessage{{Role: model.ChatRoleUser, Content: "  "}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestChatRequest_DeepResearch(t *testing.T) {
	req := model.ChatRequest{
		Messages: []model.ChatMessage{
			{Role: model.ChatRoleUser, Content: "[DEEP RESEARCH] How does auth work?"},
			{Role: model.ChatRoleAssistant, Content: "plan"},
			{Role: model.ChatRoleUser, Content: "[DEEP RESEARCH] continue"},
		},
	}

	gt.Value(t, req.IsDeepResearch()).Equal(true)
	gt.Value(t, req.Question()).Equal("continue")
	gt.Number(t, req.ResearchIteration()).Equal(2)
	gt.Number(t, len(req.History())).Equal(2)

	plain := model.ChatRequest{Messages: []model.ChatMessage{{Role: model.ChatRoleUser, Content: "hi"}}}
	gt.Value(t, plain.IsDeepResearch()).Equal(false)

	plain.DeepResearch = true
	gt.Value(t, plain.IsDeepResearch()).Equal(true)

	t.Run("follow-up without tag stays in research", func(t *testing.T) {
		req := model.ChatRequest{
			Messages: []model.ChatMessage{
				{Role: model.ChatRoleUser, Content: "  [DEEP RESEARCH] How does auth work?"},
				{Role: model.ChatRoleAssistant, Content: "plan"},
				{Role: model.ChatRoleUser, Content: "continue"},
			},
		}
		gt.Value(t, req.IsDeepResearch()).Equal(true)
		gt.Value(t, req.Question()).Equal("continue")
	})

	t.Run("tag inside the text is not a research request", func(t *testing.T) {
		req := model.ChatRequest{
			Messages: []model.ChatMessage{
				{Role: model.ChatRoleUser, Content: "What does [DEEP RESEARCH] mean?"},
			},
		}
		gt.Value(t, req.IsDeepResearch()).Equal(false)
		gt.Value(t, req.Question()).Equal("What does [DEEP RESEARCH] mean?")
	})

	t.Run("tag from assistant is ignored", func(t *testing.T) {
		req := model.ChatRequest{
			Messages: []model.ChatMessage{
				{Role: model.ChatRoleUser, Content: "hi"},
				{Role: model.ChatRoleAssistant, Content: "[DEEP RESEARCH] hello"},
				{Role: model.ChatRoleUser, Content: "ok"},
			},
		}
		gt.Value(t, req.IsDeepResearch()).Equal(false)
	})
}

func TestResearchStageOf(t *testing.T) {
	gt.Value(t, model.ResearchStageOf(1)).Equal(model.ResearchStagePlan)
	gt.Value(t, model.ResearchStageOf(2)).Equal(model.ResearchStageIntermediate)
	gt.Value(t, model.ResearchStageOf(4)).Equal(model.ResearchStageIntermediate)
	gt.Value(t, model.ResearchStageOf(5)).Equal(model.ResearchStageConclusion)
	gt.Value(t, model.ResearchStageOf(9)).Equal(model.ResearchStageConclusion)
}

func TestLanguageName(t *testing.T) {
	gt.Value(t, model.LanguageName("ja")).Equal("Japanese (日本語)")
	gt.Value(t, model.LanguageName("xx")).Equal("English")
}
