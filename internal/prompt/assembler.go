package prompt

import (
	"strings"
	"unicode/utf8"
)

type Result struct {
	Prompt    string `json:"prompt"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}

// Assemble interpolates the three inputs into the fixed template. Pure
// string work: same inputs always yield the same prompt.
func Assemble(jobDescription, latexResume, additionalInfo string) Result {
	additionalInfo = strings.TrimSpace(additionalInfo)
	if additionalInfo == "" {
		additionalInfo = "None"
	}

	r := strings.NewReplacer(
		"{job_description}", strings.TrimSpace(jobDescription),
		"{latex_resume}", strings.TrimSpace(latexResume),
		"{additional_info}", additionalInfo,
	)
	p := r.Replace(promptTemplate)

	return Result{
		Prompt:    p,
		WordCount: len(strings.Fields(p)),
		CharCount: utf8.RuneCountInString(p),
	}
}
