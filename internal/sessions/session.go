// Package sessions implements conversation persistence: sessions anchored to
// a skill and an area, the ordered messages within them, and model-generated
// session titles.
package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a stored conversation. SkillID and the area fields are
// optional; a session without them is an unscoped conversation.
type Session struct {
	ID        uuid.UUID  `json:"id"`
	SkillID   *uuid.UUID `json:"skill_id"`
	AreaCode  *string    `json:"area_code"`
	AreaName  *string    `json:"area_name"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Message is one turn of a stored conversation.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a session together with its messages in creation order.
type Conversation struct {
	Session  Session   `json:"session"`
	Messages []Message `json:"messages"`
}

// CreateCommand carries the data needed to create a new session.
type CreateCommand struct {
	SkillID  *uuid.UUID `json:"skill_id"`
	AreaCode *string    `json:"area_code"`
	AreaName *string    `json:"area_name"`
	Title    string     `json:"title"`
}

// AppendCommand carries one message to append to a session.
type AppendCommand struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TitleCommand carries a manual title update.
type TitleCommand struct {
	Title string `json:"title"`
}
