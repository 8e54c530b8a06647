package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nhle/jarvis/internal/model"
)

// ErrMalformedResponse means the model reply did not match the schema.
var ErrMalformedResponse = errors.New("malformed interpretation response")

// Intent is what the user asked the assistant to do.
type Intent string

const (
	IntentTask   Intent = "task"
	IntentDelete Intent = "delete"
	IntentQuery  Intent = "query"
	IntentChat   Intent = "chat"
)

// Request is sent to the interpretation service.
type Request struct {
	CurrentTime string `json:"currentTime"`
	UserText    string `json:"userText"`
}

// NewRequest builds a request stamped with now.
func NewRequest(text string, now time.Time) Request {
	return Request{CurrentTime: now.Format(time.RFC3339), UserText: text}
}

// Interpretation is the structured reply of the interpretation service.
type Interpretation struct {
	Intent      Intent  `json:"intent" validate:"required,oneof=task delete query chat"`
	Text        string  `json:"text" validate:"required_if=Intent task"`
	Time        *string `json:"time"`
	Instant     *string `json:"instant" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsUrgent    bool    `json:"isUrgent"`
	IsImportant bool    `json:"isImportant"`
	Response    string  `json:"response"`
}

var validate = validator.New()

// ParseInterpretation decodes a model reply. Markdown code fences and any
// prose around the JSON object are ignored.
func ParseInterpretation(raw string) (Interpretation, error) {
	body := stripFences(raw)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var in Interpretation
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return Interpretation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	in.Text = strings.TrimSpace(in.Text)
	if err := validate.Struct(in); err != nil {
		return Interpretation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return in, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// Draft converts a task interpretation into a schedule draft. The AI's
// urgency and importance flags are kept as given.
func (in Interpretation) Draft() model.Draft {
	d := model.Draft{
		Text:        in.Text,
		Kind:        model.KindNote,
		IsUrgent:    in.IsUrgent,
		IsImportant: in.IsImportant,
	}
	if in.Instant == nil {
		return d
	}

	// Validation already guaranteed the layout.
	t, err := time.Parse(time.RFC3339, *in.Instant)
	if err != nil {
		return d
	}
	d.Instant = &t
	d.Kind = model.KindTask
	if in.Time != nil && *in.Time != "" {
		d.Time = *in.Time
	} else {
		d.Time = t.Format(model.TimeLayout)
	}
	return d
}
