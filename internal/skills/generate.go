package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	"github.com/google/uuid"

	"github.com/ymatsuda/toukei/pkg/formatting"
)

const generateTemplate = `あなたは日本の行政統計データを分析するAIアシスタントのシステムプロンプトを作成する専門家です。

以下のスキル情報をもとに、統計データの分析・解説に特化したシステムプロンプトを日本語で作成してください。

スキル名: %s
説明: %s
%s
以下のJSON形式のみで回答してください:
{"prompt": "<システムプロンプト本文>"}`

type generateResponse struct {
	Prompt string `json:"prompt"`
}

// GeneratePrompt drafts a system prompt for a skill with the configured
// language model, seeding the meta-prompt with the skill's form configuration
// and the parent prompt when one exists. The draft is returned to the caller
// for review; it is never written back to the skill automatically.
func (r *repo) GeneratePrompt(ctx context.Context, id uuid.UUID) (*GeneratedPrompt, error) {
	sk, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	a, err := agent.New(&r.agent)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	prompt := fmt.Sprintf(generateTemplate, sk.Name, describe(sk), r.promptContext(ctx, sk))

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate prompt: %w", err)
	}

	parsed, err := formatting.Parse[generateResponse](resp.Text())
	if err != nil {
		return nil, fmt.Errorf("parse generated prompt: %w", err)
	}

	generated := strings.TrimSpace(parsed.Prompt)
	if generated == "" {
		return nil, fmt.Errorf("generate prompt: empty model response")
	}

	r.logger.Info("skill prompt generated", "id", sk.ID, "name", sk.Name)

	return &GeneratedPrompt{SkillID: sk.ID, Prompt: generated}, nil
}

func describe(sk *Skill) string {
	if sk.Description != nil {
		return *sk.Description
	}
	return ""
}

// promptContext assembles the optional meta-prompt sections: form
// configuration and the parent skill's prompt. A missing parent is logged and
// skipped rather than failing the generation.
func (r *repo) promptContext(ctx context.Context, sk *Skill) string {
	var b strings.Builder

	if len(sk.FormConfig) > 0 && string(sk.FormConfig) != "{}" {
		fmt.Fprintf(&b, "フォーム設定: %s\n", sk.FormConfig)
	}

	if sk.ParentID != nil {
		parent, err := r.Find(ctx, *sk.ParentID)
		if err != nil {
			r.logger.Warn("parent skill lookup failed during prompt generation",
				"id", sk.ID, "parent_id", *sk.ParentID, "error", err)
		} else if parent.SystemPrompt != nil && *parent.SystemPrompt != "" {
			fmt.Fprintf(&b, "親スキルのプロンプト:\n%s\n", *parent.SystemPrompt)
		}
	}

	return b.String()
}
