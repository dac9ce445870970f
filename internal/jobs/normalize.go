package jobs

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Diagnostic records a raw field that was missing or mistyped and got a default.
type Diagnostic struct {
	Field  string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Field, d.Reason)
}

// Result is a normalized job together with what had to be defaulted.
type Result struct {
	Job         JobMatch
	Diagnostics []Diagnostic
}

// Normalize coerces a raw job object into a JobMatch. It never fails.
func Normalize(raw any) JobMatch {
	return Decode(raw).Job
}

// NormalizeAll normalizes every element of a raw job list.
func NormalizeAll(raw []any) []JobMatch {
	return lo.Map(raw, func(item any, _ int) JobMatch {
		return Normalize(item)
	})
}

// DecodeAll is NormalizeAll that keeps the diagnostics.
func DecodeAll(raw []any) []Result {
	return lo.Map(raw, func(item any, _ int) Result {
		return Decode(item)
	})
}

// Decode coerces a raw job object and reports every defaulted field.
func Decode(raw any) Result {
	d := &decoder{}

	obj, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			d.report("", "job is null")
		} else {
			d.report("", fmt.Sprintf("job is %T, not an object", raw))
		}
		obj = map[string]any{}
	}

	reasons, ok := obj["reasons"].(map[string]any)
	if !ok {
		if obj["reasons"] != nil {
			d.report("reasons", "not an object")
		}
		reasons = map[string]any{}
	}

	job := JobMatch{
		JobID:           d.integer(obj, "job_id"),
		Score:           d.number(obj, "score"),
		Title:           d.str(obj, "title"),
		Description:     d.str(obj, "description"),
		CompanyNorm:     d.str(obj, "company_norm"),
		LocationNorm:    d.str(obj, "location_norm"),
		ExperienceLevel: d.str(obj, "experience_level"),
		JobType:         d.str(obj, "job_type"),
		Industry:        d.str(obj, "industry"),
		SkillsNorm:      d.stringList(obj, "skills_norm", "skills_norm"),
		SalaryMin:       d.optionalNumber(obj, "salary_min_vnd"),
		SalaryMax:       d.optionalNumber(obj, "salary_max_vnd"),
		SalaryCurrency:  d.currency(obj),
		DatePosted:      d.optionalString(obj, "date_posted"),
		ExternalLink:    d.optionalString(obj, "external_link"),
	}

	job.Reasons = Reasons{
		OverlapSkills: d.stringList(reasons, "overlap_skills", "reasons.overlap_skills"),
		MissingSkills: d.stringList(reasons, "missing_skills", "reasons.missing_skills"),
		LocCand:       d.stringList(reasons, "loc_cand", "reasons.loc_cand"),
		LocJob:        job.LocationNorm,
		ScoreHint:     job.Score,
	}

	if v, ok := reasons["loc_job"]; ok && v != nil {
		job.Reasons.LocJob = d.coerceString("reasons.loc_job", v)
	}

	if v, ok := reasons["score_hint"]; ok && v != nil {
		job.Reasons.ScoreHint = d.coerceNumber("reasons.score_hint", v)
	}

	return Result{Job: job, Diagnostics: d.diagnostics}
}

type decoder struct {
	diagnostics []Diagnostic
}

func (d *decoder) report(field, reason string) {
	if field == "" {
		field = "job"
	}
	d.diagnostics = append(d.diagnostics, Diagnostic{Field: field, Reason: reason})
}

func (d *decoder) number(obj map[string]any, key string) float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		d.report(key, "missing")
		return 0
	}
	return d.coerceNumber(key, v)
}

func (d *decoder) coerceNumber(field string, v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.report(field, fmt.Sprintf("%v is not a number", v))
		return 0
	}
	return f
}

func (d *decoder) integer(obj map[string]any, key string) int {
	f := d.number(obj, key)
	if f < 0 {
		d.report(key, "negative")
		return 0
	}
	// int conversion of a float beyond the int range is undefined.
	if f >= float64(math.MaxInt) {
		d.report(key, "out of range")
		return 0
	}
	return int(f)
}

func (d *decoder) optionalNumber(obj map[string]any, key string) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.report(key, fmt.Sprintf("%v is not a number", v))
		return nil
	}
	return &f
}

func (d *decoder) str(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	return d.coerceString(key, v)
}

func (d *decoder) coerceString(field string, v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		d.report(field, fmt.Sprintf("%T is not a string", v))
		return fmt.Sprintf("%v", v)
	}
	return s
}

func (d *decoder) optionalString(obj map[string]any, key string) *string {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	s := d.coerceString(key, v)
	return &s
}

func (d *decoder) currency(obj map[string]any) string {
	c := strings.TrimSpace(d.str(obj, "salary_currency"))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// stringList uses the raw value only when it is really an array.
func (d *decoder) stringList(obj map[string]any, key, field string) []string {
	v, ok := obj[key]
	if !ok || v == nil {
		return []string{}
	}

	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]string); ok {
			return append([]string{}, typed...)
		}
		d.report(field, fmt.Sprintf("%T is not an array", v))
		return []string{}
	}

	return lo.Map(items, func(item any, _ int) string {
		return d.coerceString(field, item)
	})
}
