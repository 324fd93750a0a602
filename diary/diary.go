// Package diary holds the diary record model and the content extractor that
// pattern-matches a record out of freeform model output.
package diary

import (
	"errors"
	"regexp"
	"strings"
)

// Record is the three-field diary extracted from a model reply. It lives in
// memory only; persistence happens through the worldbook store.
type Record struct {
	Title   string
	Time    string
	Content string
}

// Placeholder tokens from the instruction template. A reply that echoes any
// of them verbatim did not actually write a diary.
const (
	placeholderTitle   = "{{标题}}"
	placeholderTime    = "{{时间}}"
	placeholderContent = "{{内容}}"
)

var (
	ErrNoMatch      = errors.New("diary: no diary block in text")
	ErrTemplateEcho = errors.New("diary: reply echoed the template placeholders")
	ErrIncomplete   = errors.New("diary: diary block has empty fields")
)

// The reply shape is fixed: three fields wrapped in full-width brackets, in
// title/time/content order, with arbitrary text in between.
var diaryRe = regexp.MustCompile(`(?s)［日记标题：([^］]+)］.*?［日记时间：([^］]+)］.*?［日记内容：(.*?)］`)

// Extract pattern-matches the first diary block out of raw text. Fields are
// trimmed; rejection order is fixed: no match, placeholder echo, empty field.
func Extract(raw string) (*Record, error) {
	m := diaryRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, ErrNoMatch
	}

	title := strings.TrimSpace(m[1])
	time := strings.TrimSpace(m[2])
	content := strings.TrimSpace(m[3])

	if title == placeholderTitle || time == placeholderTime || content == placeholderContent {
		return nil, ErrTemplateEcho
	}
	if title == "" || time == "" || content == "" {
		return nil, ErrIncomplete
	}

	return &Record{Title: title, Time: time, Content: content}, nil
}
