package scraper

import "strings"

// Posting is the structured result of scraping one job URL.
type Posting struct {
	URL         string   `json:"url"`
	Title       string   `json:"job_title"`
	Company     string   `json:"company_name"`
	Location    string   `json:"location"`
	JobType     string   `json:"job_type"`
	SalaryRange string   `json:"salary_range"`
	Description string   `json:"description"`
	Notes       []string `json:"scraper_notes,omitempty"`
}

// PromptBlock formats the posting as a single text block suitable for
// the job-description slot of the tailoring prompt.
func (p Posting) PromptBlock() string {
	parts := make([]string, 0, 7)
	if p.Title != "" {
		parts = append(parts, "## "+p.Title)
	}
	if p.Company != "" {
		parts = append(parts, "**Company:** "+p.Company)
	}
	if p.Location != "" {
		parts = append(parts, "**Location:** "+p.Location)
	}
	if p.JobType != "" {
		parts = append(parts, "**Type:** "+p.JobType)
	}
	if p.SalaryRange != "" {
		parts = append(parts, "**Salary:** "+p.SalaryRange)
	}
	parts = append(parts, "", p.Description)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func (p *Posting) note(msg string) {
	if p == nil || strings.TrimSpace(msg) == "" {
		return
	}
	p.Notes = append(p.Notes, msg)
}
