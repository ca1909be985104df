package jobs

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/jobboard/internal/model"
)

// Facet values offered by the explore page.
var (
	WorkModes    = []string{"Remote", "Hybrid", "Office"}
	SalaryRanges = []string{"$0-$50k", "$50k-$100k", "$100k-$150k", "$150k or above"}
	Cities       = []string{"Remote", "San Francisco", "New York", "Austin", "Seattle", "Boston", "London"}
)

// Sort orders.
const (
	SortRecent  = "recent"
	SortSalary  = "salary"
	SortCompany = "company"
)

// SortOrders lists the accepted sort orders.
var SortOrders = []string{SortRecent, SortSalary, SortCompany}

const postedDateLayout = "Mon Jan 02 2006"

// Filter selects listings. Empty facets match everything.
type Filter struct {
	Search          string
	EmploymentTypes []string
	WorkModes       []string
	SalaryRanges    []string
	Experience      []string
	Cities          []string
}

// Range is a salary interval in currency units. Max is +Inf when open-ended.
type Range struct {
	Min float64
	Max float64
}

// Overlaps reports whether r and o share at least one value.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// ParseSalary parses "80K-100K", "$50k-$100k" or "$150k or above".
// Missing bounds default to 0 and +Inf.
func ParseSalary(s string) Range {
	clean := strings.ToLower(strings.TrimSpace(s))
	clean = strings.NewReplacer("k", "000", "$", "", "£", "", ",", "", " ", "").Replace(clean)

	if strings.HasSuffix(clean, "orabove") || strings.HasSuffix(clean, "+") {
		lo := parseAmount(strings.TrimSuffix(strings.TrimSuffix(clean, "orabove"), "+"), 0)
		return Range{Min: lo, Max: math.Inf(1)}
	}

	lo, hi, found := strings.Cut(clean, "-")
	if !found {
		v := parseAmount(lo, 0)
		return Range{Min: v, Max: v}
	}
	return Range{Min: parseAmount(lo, 0), Max: parseAmount(hi, math.Inf(1))}
}

func parseAmount(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// Match reports whether j satisfies every non-empty facet of f.
func (f Filter) Match(j model.Job) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(j.Company), q) {
			return false
		}
	}
	if len(f.EmploymentTypes) > 0 && !slices.Contains(f.EmploymentTypes, j.EmploymentType) {
		return false
	}
	if len(f.WorkModes) > 0 && !slices.ContainsFunc(f.WorkModes, func(m string) bool { return workModeMatches(m, j.WorkMode) }) {
		return false
	}
	if len(f.SalaryRanges) > 0 {
		salary := ParseSalary(j.Salary)
		if !slices.ContainsFunc(f.SalaryRanges, func(r string) bool { return ParseSalary(r).Overlaps(salary) }) {
			return false
		}
	}
	if len(f.Experience) > 0 && !slices.Contains(f.Experience, j.Experience) {
		return false
	}
	// city names are matched as written, "New York" does not match "new york"
	if len(f.Cities) > 0 && !slices.ContainsFunc(f.Cities, func(c string) bool { return strings.Contains(j.Location, c) }) {
		return false
	}
	return true
}

// workModeMatches compares case-insensitively, except the "Office" label which selects
// listings stored as exactly "onsite".
func workModeMatches(selected, jobMode string) bool {
	if selected == "Office" {
		return jobMode == "onsite"
	}
	return strings.EqualFold(selected, jobMode)
}

// Apply filters jobs and sorts the result by order. Unknown orders keep dataset order.
func Apply(jobs []model.Job, f Filter, order string) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	Sort(out, order)
	return out
}

// Sort orders jobs in place. Recent sorts by posted date, newest first; salary by the upper
// bound, then the lower bound, highest first; company by name, A to Z ignoring case.
// All orders are stable.
func Sort(jobs []model.Job, order string) {
	switch order {
	case SortRecent:
		sort.SliceStable(jobs, func(a, b int) bool {
			return postedAt(jobs[a]).After(postedAt(jobs[b]))
		})
	case SortSalary:
		sort.SliceStable(jobs, func(a, b int) bool {
			ra, rb := ParseSalary(jobs[a].Salary), ParseSalary(jobs[b].Salary)
			if ra.Max != rb.Max {
				return ra.Max > rb.Max
			}
			return ra.Min > rb.Min
		})
	case SortCompany:
		sort.SliceStable(jobs, func(a, b int) bool {
			return strings.ToLower(jobs[a].Company) < strings.ToLower(jobs[b].Company)
		})
	}
}

func postedAt(j model.Job) time.Time {
	t, err := time.Parse(postedDateLayout, j.PostedDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
