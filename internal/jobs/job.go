// Package jobs converts raw job payloads from the ranking service into the
// canonical JobMatch shape. It is the only package that inspects them.
package jobs

const DefaultCurrency = "VND"

// Reasons explains why a job was matched to a candidate.
type Reasons struct {
	OverlapSkills []string `json:"overlap_skills"`
	MissingSkills []string `json:"missing_skills"`
	LocJob        string   `json:"loc_job"`
	LocCand       []string `json:"loc_cand"`
	ScoreHint     float64  `json:"score_hint"`
}

// JobMatch is a job posting annotated with a relevance score.
type JobMatch struct {
	JobID           int      `json:"job_id"`
	Score           float64  `json:"score"`
	Reasons         Reasons  `json:"reasons"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CompanyNorm     string   `json:"company_norm"`
	LocationNorm    string   `json:"location_norm"`
	ExperienceLevel string   `json:"experience_level"`
	JobType         string   `json:"job_type"`
	Industry        string   `json:"industry"`
	SkillsNorm      []string `json:"skills_norm"`
	SalaryMin       *float64 `json:"salary_min_vnd,omitempty"`
	SalaryMax       *float64 `json:"salary_max_vnd,omitempty"`
	SalaryCurrency  string   `json:"salary_currency"`
	DatePosted      *string  `json:"date_posted,omitempty"`
	ExternalLink    *string  `json:"external_link,omitempty"`
}

// Salary renders the salary range of the job.
func (j JobMatch) Salary() string {
	return FormatSalary(j.SalaryMin, j.SalaryMax, j.SalaryCurrency)
}
