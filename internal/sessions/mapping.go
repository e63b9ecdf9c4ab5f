package sessions

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/ymatsuda/toukei/pkg/query"
	"github.com/ymatsuda/toukei/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("skill_id", "SkillID").
	Project("area_code", "AreaCode").
	Project("area_name", "AreaName").
	Project("title", "Title").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "updated_at",
	Descending: true,
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored.
type Filters struct {
	SkillID  *uuid.UUID `json:"skill_id,omitempty"`
	AreaCode *string    `json:"area_code,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SkillID", f.SkillID).
		WhereEquals("AreaCode", f.AreaCode)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("skill_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SkillID = &id
		}
	}

	if a := values.Get("area_code"); a != "" {
		f.AreaCode = &a
	}

	return f
}

func scanSession(s repository.Scanner) (Session, error) {
	var sess Session
	err := s.Scan(
		&sess.ID,
		&sess.SkillID,
		&sess.AreaCode,
		&sess.AreaName,
		&sess.Title,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	return sess, err
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.SessionID,
		&m.Role,
		&m.Content,
		&m.CreatedAt,
	)
	return m, err
}
