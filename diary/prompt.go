package diary

import "strings"

// PromptTemplate is the fixed instruction sent as a synthetic user message.
// The {{char}} macro is left for the host preset to expand unless the caller
// supplies an explicit author override.
const PromptTemplate = "以{{char}}的口吻写一则日记，日记格式为：\n［日记标题：{{标题}}］\n［日记时间：{{时间}}］\n［日记内容：{{内容}}］"

// Prompt returns the diary instruction, substituting the author macro only
// when an override is given.
func Prompt(authorOverride string) string {
	authorOverride = strings.TrimSpace(authorOverride)
	if authorOverride == "" {
		return PromptTemplate
	}
	return strings.ReplaceAll(PromptTemplate, "{{char}}", authorOverride)
}
