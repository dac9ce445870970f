// Package candidate holds the parsed CV record returned by the backend.
package candidate

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Candidate is a parsed CV. It is replaced as a whole on every upload.
type Candidate struct {
	ID                string   `json:"cand_id"`
	Name              string   `json:"name"`
	Emails            []string `json:"emails"`
	Phones            []string `json:"phones"`
	Locations         []string `json:"locations"`
	SkillsNorm        []string `json:"skills_norm"`
	ExpYears          float64  `json:"exp_years"`
	ExperienceEntries []string `json:"experience_entries"`
	EducationEntries  []string `json:"education_entries"`
}

// Decode builds a Candidate from a loosely typed JSON object.
func Decode(raw map[string]any) (*Candidate, error) {
	if raw == nil {
		return nil, errors.New("candidate payload is empty")
	}

	var c Candidate
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &c,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}

	c.fillDefaults()

	return &c, nil
}

func (c *Candidate) fillDefaults() {
	for _, field := range []*[]string{
		&c.Emails, &c.Phones, &c.Locations, &c.SkillsNorm, &c.ExperienceEntries, &c.EducationEntries,
	} {
		if *field == nil {
			*field = []string{}
		}
	}

	if c.ExpYears < 0 {
		c.ExpYears = 0
	}
}
