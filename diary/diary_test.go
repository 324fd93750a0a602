package diary

import (
	"errors"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	raw := "foo［日记标题：月夜］bar［日记时间：2024-01-01］baz［日记内容：今天很平静。］qux"
	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.Title != "月夜" {
		t.Fatalf("Extract() title = %q, want %q", rec.Title, "月夜")
	}
	if rec.Time != "2024-01-01" {
		t.Fatalf("Extract() time = %q, want %q", rec.Time, "2024-01-01")
	}
	if rec.Content != "今天很平静。" {
		t.Fatalf("Extract() content = %q, want %q", rec.Content, "今天很平静。")
	}
}

func TestExtractTrimsFields(t *testing.T) {
	t.Parallel()

	raw := "［日记标题： 晨雾 ］\n随便写点\n［日记时间： 2024-02-02 ］\n［日记内容：\n起得很早。\n］"
	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.Title != "晨雾" {
		t.Fatalf("Extract() title = %q, want trimmed %q", rec.Title, "晨雾")
	}
	if rec.Content != "起得很早。" {
		t.Fatalf("Extract() content = %q, want trimmed %q", rec.Content, "起得很早。")
	}
}

func TestExtractFirstMatchOnly(t *testing.T) {
	t.Parallel()

	raw := "［日记标题：一］［日记时间：t1］［日记内容：c1］" +
		"［日记标题：二］［日记时间：t2］［日记内容：c2］"
	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.Title != "一" || rec.Content != "c1" {
		t.Fatalf("Extract() = %+v, want first block", rec)
	}
}

func TestExtractMultilineContent(t *testing.T) {
	t.Parallel()

	raw := "［日记标题：雨天］\n中间还有话\n［日记时间：2024-03-03］\n［日记内容：第一段。\n\n第二段，带【方括号】和（括弧）。］"
	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(rec.Content, "第二段") {
		t.Fatalf("Extract() content = %q, want multi-line content preserved", rec.Content)
	}
	if !strings.Contains(rec.Content, "【方括号】") {
		t.Fatalf("Extract() content = %q, want bracket-like characters kept as-is", rec.Content)
	}
}

func TestExtractRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"empty_input", "", ErrNoMatch},
		{"missing_title_marker", "［日记时间：2024-01-01］［日记内容：x］", ErrNoMatch},
		{"missing_time_marker", "［日记标题：a］［日记内容：x］", ErrNoMatch},
		{"missing_content_marker", "［日记标题：a］［日记时间：2024-01-01］", ErrNoMatch},
		{"placeholder_title", "［日记标题：{{标题}}］［日记时间：2024-01-01］［日记内容：x］", ErrTemplateEcho},
		{"placeholder_time", "［日记标题：a］［日记时间：{{时间}}］［日记内容：x］", ErrTemplateEcho},
		{"placeholder_content", "［日记标题：a］［日记时间：2024-01-01］［日记内容：{{内容}}］", ErrTemplateEcho},
		{"empty_content", "［日记标题：a］［日记时间：2024-01-01］［日记内容： ］", ErrIncomplete},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, err := Extract(tc.raw)
			if rec != nil {
				t.Fatalf("Extract() record = %+v, want nil", rec)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Extract() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	t.Parallel()

	if got := Prompt(""); got != PromptTemplate {
		t.Fatalf("Prompt(\"\") = %q, want unmodified template", got)
	}
	got := Prompt("小鸟游六花")
	if strings.Contains(got, "{{char}}") {
		t.Fatalf("Prompt(override) still contains {{char}}: %q", got)
	}
	if !strings.HasPrefix(got, "以小鸟游六花的口吻") {
		t.Fatalf("Prompt(override) = %q, want substituted author", got)
	}
	if !strings.Contains(got, "{{标题}}") {
		t.Fatalf("Prompt(override) = %q, want field placeholders untouched", got)
	}
}
