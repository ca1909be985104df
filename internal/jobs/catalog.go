// Package jobs holds the static job catalog and the explore-page filter.
package jobs

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/and161185/jobboard/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is an immutable set of listings.
type Catalog struct {
	jobs []model.Job
	faqs []model.FAQ
	byID map[int]int
}

type catalogFile struct {
	Jobs []model.Job `yaml:"jobs"`
	FAQs []model.FAQ `yaml:"faqs"`
}

// Default parses the embedded dataset.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse builds a catalog from YAML. Job ids must be unique and positive.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{jobs: f.Jobs, faqs: f.FAQs, byID: make(map[int]int, len(f.Jobs))}
	for i, j := range f.Jobs {
		if j.ID <= 0 {
			return nil, fmt.Errorf("catalog: job[%d] has invalid id %d", i, j.ID)
		}
		if _, dup := c.byID[j.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate job id %d", j.ID)
		}
		c.byID[j.ID] = i
	}
	return c, nil
}

// All returns every listing in dataset order.
func (c *Catalog) All() []model.Job {
	return append([]model.Job(nil), c.jobs...)
}

// FAQs returns the help entries.
func (c *Catalog) FAQs() []model.FAQ {
	return append([]model.FAQ(nil), c.faqs...)
}

// Find returns the job with id.
func (c *Catalog) Find(id int) (model.Job, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Job{}, false
	}
	return c.jobs[i], true
}

// Recommended returns up to n jobs other than id, in dataset order.
func (c *Catalog) Recommended(id, n int) []model.Job {
	if n <= 0 {
		return nil
	}
	out := make([]model.Job, 0, n)
	for _, j := range c.jobs {
		if len(out) == n {
			break
		}
		if j.ID != id {
			out = append(out, j)
		}
	}
	return out
}

// EmploymentTypes lists the distinct employment types in dataset order.
func (c *Catalog) EmploymentTypes() []string {
	return distinct(c.jobs, func(j model.Job) string { return j.EmploymentType })
}

// ExperienceLevels lists the distinct experience values in dataset order.
func (c *Catalog) ExperienceLevels() []string {
	return distinct(c.jobs, func(j model.Job) string { return j.Experience })
}

func distinct(jobs []model.Job, key func(model.Job) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, j := range jobs {
		k := key(j)
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
