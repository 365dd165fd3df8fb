package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Profile describes the known DOM layout of one applicant tracking
// system so extraction can target the job content directly instead of
// filtering nav and footer junk after the fact.
type Profile struct {
	Name             string
	Hosts            []string
	HostPattern      *regexp.Regexp
	ContentSelector  string
	TitleSelector    string
	CompanySelector  string
	LocationSelector string
	WaitSelector     string
	ExtraWait        time.Duration
	NeedsHeadless    bool
}

var atsProfiles = []Profile{
	{
		Name:             "greenhouse",
		Hosts:            []string{"boards.greenhouse.io", "boards.eu.greenhouse.io"},
		ContentSelector:  "#content, #app_body, .app-body",
		TitleSelector:    ".app-title, .company-name + h1, h1.heading",
		CompanySelector:  ".company-name, span.company-name",
		LocationSelector: ".location, .body--metadata",
		WaitSelector:     "#content",
	},
	{
		Name:             "lever",
		Hosts:            []string{"jobs.lever.co"},
		ContentSelector:  ".content, .section-wrapper, .posting-page",
		TitleSelector:    "h2, .posting-headline h2",
		CompanySelector:  ".main-header-logo img[alt]",
		LocationSelector: ".location, .sort-by-time",
		WaitSelector:     ".posting-headline",
	},
	{
		Name:             "ashby",
		Hosts:            []string{"jobs.ashbyhq.com"},
		ContentSelector:  `[data-testid="job-posting"], .ashby-job-posting-brief-description, main`,
		TitleSelector:    "h1, h2",
		CompanySelector:  `a[data-testid="org-name"], .ashby-job-posting-org-name`,
		LocationSelector: `[data-testid="job-location"], .ashby-job-posting-location`,
		WaitSelector:     "main",
	},
	{
		Name:             "workday",
		Hosts:            []string{"myworkdayjobs.com"},
		HostPattern:      regexp.MustCompile(`.*\.myworkdayjobs\.com$`),
		ContentSelector:  `[data-automation-id="jobPostingDescription"], .css-cygeeu, main`,
		TitleSelector:    `[data-automation-id="jobPostingHeader"] h2, h2`,
		CompanySelector:  `[data-automation-id="jobPostingCompanyName"]`,
		LocationSelector: `[data-automation-id="locations"], .css-129m7dg`,
		WaitSelector:     `[data-automation-id="jobPostingDescription"]`,
		ExtraWait:        3 * time.Second,
		NeedsHeadless:    true,
	},
	{
		Name:             "linkedin",
		Hosts:            []string{"linkedin.com", "www.linkedin.com"},
		ContentSelector:  ".description__text, .show-more-less-html, .jobs-description, article",
		TitleSelector:    "h1, .top-card-layout__title, .jobs-unified-top-card__job-title",
		CompanySelector:  ".topcard__org-name-link, .jobs-unified-top-card__company-name a",
		LocationSelector: ".topcard__flavor--bullet, .jobs-unified-top-card__bullet",
		WaitSelector:     ".description__text, .show-more-less-html, article",
	},
	{
		Name:             "indeed",
		Hosts:            []string{"indeed.com", "www.indeed.com"},
		ContentSelector:  "#jobDescriptionText, .jobsearch-JobComponent-description",
		TitleSelector:    "h1.jobsearch-JobInfoHeader-title, h1",
		CompanySelector:  `[data-company-name], .jobsearch-InlineCompanyRating a`,
		LocationSelector: `[data-testid="job-location"], .jobsearch-JobInfoHeader-subtitle div:nth-child(2)`,
		WaitSelector:     "#jobDescriptionText",
	},
	{
		Name:             "smartrecruiters",
		Hosts:            []string{"jobs.smartrecruiters.com"},
		ContentSelector:  ".job-sections, .description, main",
		TitleSelector:    "h1, .job-title",
		CompanySelector:  ".company-name",
		LocationSelector: ".job-location",
		WaitSelector:     ".job-sections, main",
	},
	{
		Name:             "icims",
		HostPattern:      regexp.MustCompile(`.*\.icims\.com$`),
		ContentSelector:  ".iCIMS_JobContent, .iCIMS_MainWrapper, main",
		TitleSelector:    "h1, .iCIMS_Header",
		CompanySelector:  ".iCIMS_CompanyName",
		LocationSelector: ".iCIMS_JobHeaderData",
		WaitSelector:     ".iCIMS_JobContent, main",
	},
}

// DetectProfile matches a URL against the known ATS hosts. Returns nil
// for unrecognized hosts; extraction then falls back to heuristics.
func DetectProfile(rawURL string) *Profile {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil
	}

	for i := range atsProfiles {
		p := &atsProfiles[i]
		for _, h := range p.Hosts {
			if host == h || strings.HasSuffix(host, "."+h) || strings.Contains(host, h) {
				return p
			}
		}
		if p.HostPattern != nil && p.HostPattern.MatchString(host) {
			return p
		}
	}
	return nil
}

// Generic fallback content selectors, ordered by specificity.
var genericContentSelectors = []string{
	`article[class*="job"]`,
	`div[class*="job-description"]`,
	`div[class*="jobDescription"]`,
	`div[class*="job_description"]`,
	`div[class*="posting-"]`,
	`div[id*="job-description"]`,
	`div[id*="jobDescription"]`,
	`section[class*="job"]`,
	"main",
	"article",
	`[role="main"]`,
	"#content",
	".content",
}
