package dto

type PromptRequest struct {
	JobDescription string `json:"job_description"`
	LatexResume    string `json:"latex_resume"`
	AdditionalInfo string `json:"additional_info"`
}

type FileSaveRequest struct {
	Content string `json:"content"`
}

type ValidateRequest struct {
	Content string `json:"content"`
}

// CompileRequest compiles the given source, or the tracked resume
// file when content is empty.
type CompileRequest struct {
	Content string `json:"content"`
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

type BatchScrapeRequest struct {
	URLs    []string `json:"urls"`
	Workers int      `json:"workers"`
}

type JobCreateRequest struct {
	URL string `json:"url"`
}

type JobPatchRequest struct {
	Applied *bool `json:"applied"`
}

type TokenRequest struct {
	Passphrase string `json:"passphrase"`
}
