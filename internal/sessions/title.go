package sessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	"github.com/google/uuid"
)

const titleTemplate = `以下の会話に対して、10文字以内の簡潔なタイトルを日本語で生成してください。タイトルのみを返してください。

ユーザー: %s
AI: %s`

// assistantExcerptLimit caps how much of the assistant reply is shown to the
// titling model; the opening is enough to name the conversation.
const assistantExcerptLimit = 200

// GenerateTitle derives a session title from the first user/assistant
// exchange and stores it.
func (r *repo) GenerateTitle(ctx context.Context, id uuid.UUID) (*Session, error) {
	conv, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	userMsg, assistantMsg := firstExchange(conv.Messages)
	if userMsg == "" {
		return nil, ErrNoMessages
	}

	a, err := agent.New(&r.agent)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	prompt := fmt.Sprintf(titleTemplate, userMsg, excerpt(assistantMsg, assistantExcerptLimit))
	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate title: %w", err)
	}

	title := cleanTitle(resp.Text())
	if title == "" {
		return nil, fmt.Errorf("generate title: empty model response")
	}

	sess, err := r.UpdateTitle(ctx, id, TitleCommand{Title: title})
	if err != nil {
		return nil, err
	}

	r.logger.Info("session title generated", "id", sess.ID, "title", sess.Title)
	return sess, nil
}

func firstExchange(messages []Message) (user, assistant string) {
	for _, m := range messages {
		switch {
		case user == "" && m.Role == RoleUser:
			user = m.Content
		case assistant == "" && m.Role == RoleAssistant:
			assistant = m.Content
		}
		if user != "" && assistant != "" {
			break
		}
	}
	return user, assistant
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// cleanTitle strips the quoting some models wrap titles in.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{"「", "」"}, {`"`, `"`}, {"『", "』"}} {
		s = strings.TrimPrefix(s, pair[0])
		s = strings.TrimSuffix(s, pair[1])
	}
	return strings.TrimSpace(s)
}
