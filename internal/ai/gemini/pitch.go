package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/ai"
	"github.com/spigell/cvmatch/internal/candidate"
	"github.com/spigell/cvmatch/internal/jobs"
	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/utils"
)

const providerName = "gemini"

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

type Pitcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewPitcher(generator contentGenerator, log *zap.Logger, maxLogLength int) *Pitcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Pitcher{
		generator: generator,
		logger:    logger.WithCommonFields(log, providerName, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// Draft asks the model for an application message for job.
func (p *Pitcher) Draft(ctx context.Context, cand *candidate.Candidate, job jobs.JobMatch) (*ai.Pitch, error) {
	if cand == nil {
		return nil, errors.New("candidate is required")
	}

	candidateJSON, err := json.MarshalIndent(candidatePayload(cand), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	jobJSON, err := json.MarshalIndent(jobPayload(job), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := buildPrompt(string(candidateJSON), string(jobJSON))

	p.logger.Debug("gemini generate content request",
		zap.Int("job_id", job.JobID),
		zap.String(logger.FieldCandidate, cand.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini generate content response",
		zap.Int("job_id", job.JobID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	pitch := parseResponse(raw)
	pitch.Raw = raw
	return pitch, nil
}

// candidatePayload leaves out contact details.
func candidatePayload(c *candidate.Candidate) map[string]any {
	return map[string]any{
		"name":       c.Name,
		"skills":     c.SkillsNorm,
		"exp_years":  c.ExpYears,
		"experience": c.ExperienceEntries,
		"education":  c.EducationEntries,
		"locations":  c.Locations,
	}
}

func jobPayload(job jobs.JobMatch) map[string]any {
	return map[string]any{
		"title":            job.Title,
		"company":          job.CompanyNorm,
		"location":         job.LocationNorm,
		"experience_level": job.ExperienceLevel,
		"job_type":         job.JobType,
		"skills":           job.SkillsNorm,
		"overlap_skills":   job.Reasons.OverlapSkills,
		"description":      utils.TruncateForLog(job.Description, 1500),
	}
}

func buildPrompt(candidateJSON, jobJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate:\n{{CANDIDATE_JSON}}\n\nJob:\n{{JOB_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{CANDIDATE_JSON}}", candidateJSON)
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", jobJSON)
	return prompt
}

// parseResponse accepts a JSON object, optionally fenced, and falls back to
// the raw text as the message.
func parseResponse(raw string) *ai.Pitch {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return &ai.Pitch{Message: strings.TrimSpace(raw), Highlight: []string{}}
	}

	message := coerceString(data["message"])
	if message == "" {
		message = strings.TrimSpace(raw)
	}

	highlights := lo.FilterMap(cast.ToSlice(data["highlights"]), func(v any, _ int) (string, bool) {
		s := coerceString(v)
		return s, s != ""
	})

	return &ai.Pitch{
		Subject:   coerceString(data["subject"]),
		Message:   message,
		Highlight: highlights,
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case map[string]any, []any:
		bytes, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(bytes)
	default:
		return strings.TrimSpace(cast.ToString(val))
	}
}
