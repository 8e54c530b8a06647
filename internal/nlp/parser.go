// Package nlp turns free-text commands into structured drafts.
package nlp

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/nhle/jarvis/internal/model"
)

// Parser extracts the first date/time expression from a command.
type Parser struct {
	w *when.Parser
}

// NewParser returns a parser with the English and language-neutral rule
// sets loaded.
func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Parse resolves input relative to now. A missing or unrecognizable date is
// a normal outcome: the draft is returned as a note with the text verbatim.
func (p *Parser) Parse(input string, now time.Time) model.Draft {
	note := model.Draft{Text: input, Kind: model.KindNote}

	res, err := p.w.Parse(input, now)
	if err != nil || res == nil {
		return note
	}

	instant := res.Time.Truncate(time.Minute)
	cleaned := cut(input, res.Index, res.Index+len(res.Text))
	if cleaned == "" {
		cleaned = input
	}

	return model.Draft{
		Text:    cleaned,
		Time:    instant.Format(model.TimeLayout),
		Instant: &instant,
		Kind:    model.KindTask,
	}
}

// prepositions are dropped when they directly precede the date expression,
// so "Call Mom at 5pm" becomes "Call Mom".
var prepositions = map[string]bool{"at": true, "on": true, "by": true, "in": true}

// cut removes input[start:end] together with one leading preposition and
// collapses whitespace.
func cut(input string, start, end int) string {
	if start < 0 || end > len(input) || start > end {
		return collapse(input)
	}
	before := strings.Fields(input[:start])
	if n := len(before); n > 0 && prepositions[strings.ToLower(before[n-1])] {
		before = before[:n-1]
	}
	return collapse(strings.Join(before, " ") + " " + input[end:])
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
