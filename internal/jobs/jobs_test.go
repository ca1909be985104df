package jobs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/jobboard/internal/model"
)

func catalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func ids(jobs []model.Job) []int {
	out := make([]int, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := catalog(t)
	all := c.All()
	require.Len(t, all, 12)
	require.Len(t, c.FAQs(), 6)

	j, ok := c.Find(1)
	require.True(t, ok)
	require.Equal(t, "Senior Frontend Developer", j.Title)
	require.Equal(t, "Tech Innovations", j.Company)
	require.Equal(t, "remote", j.WorkMode)
	require.Equal(t, []string{"React", "TypeScript", "CSS", "HTML", "JavaScript", "REST API"}, j.Skills)

	_, ok = c.Find(13)
	require.False(t, ok)

	require.Equal(t, []string{"Full Time"}, c.EmploymentTypes())
	require.Contains(t, c.ExperienceLevels(), "Ex: Not disclosed")

	// All returns a copy
	all[0].Title = "changed"
	j, _ = c.Find(1)
	require.Equal(t, "Senior Frontend Developer", j.Title)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("jobs: ["))
	require.Error(t, err)
	_, err = Parse([]byte("jobs:\n  - id: 1\n  - id: 1\n"))
	require.Error(t, err)
	_, err = Parse([]byte("jobs:\n  - id: 0\n"))
	require.Error(t, err)
}

func TestRecommended(t *testing.T) {
	c := catalog(t)
	require.Equal(t, []int{2, 3, 4}, ids(c.Recommended(1, 3)))
	require.Equal(t, []int{1, 3, 4}, ids(c.Recommended(2, 3)))
	require.Empty(t, c.Recommended(1, 0))
}

func TestParseSalary(t *testing.T) {
	inf := math.Inf(1)
	cases := map[string]Range{
		"80K-100K":       {80000, 100000},
		"$50k-$100k":     {50000, 100000},
		"$0-$50k":        {0, 50000},
		"$150k or above": {150000, inf},
		"£60k+":          {60000, inf},
		"-$50k":          {0, 50000},
		"$100k-":         {100000, inf},
	}
	for in, want := range cases {
		require.Equal(t, want, ParseSalary(in), in)
	}
}

func TestFilter(t *testing.T) {
	all := catalog(t).All()

	cases := []struct {
		name string
		f    Filter
		want []int
	}{
		{"empty", Filter{}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{"search title or company", Filter{Search: " CLOUD "}, []int{2, 12}},
		{"office means onsite", Filter{WorkModes: []string{"Office"}}, []int{5}},
		{"work mode case-insensitive", Filter{WorkModes: []string{"Hybrid"}}, []int{2, 3, 6, 8, 10, 12}},
		{"top salary band is inclusive", Filter{SalaryRanges: []string{"$150k or above"}}, []int{12}},
		{"bottom salary band", Filter{SalaryRanges: []string{"$0-$50k"}}, []int{11}},
		{"city substring", Filter{Cities: []string{"Remote"}}, []int{4, 9}},
		{"city is case-sensitive", Filter{Cities: []string{"remote"}}, []int{}},
		{"office label is exact", Filter{WorkModes: []string{"office"}}, []int{}},
		{"experience", Filter{Experience: []string{"4-6 Yrs"}}, []int{2, 5, 9}},
		{"employment type", Filter{EmploymentTypes: []string{"Part Time"}}, []int{}},
		{
			"combined facets",
			Filter{WorkModes: []string{"Remote"}, SalaryRanges: []string{"$100k-$150k"}},
			[]int{1, 4, 9},
		},
		{
			"facets are OR within, AND across",
			Filter{Cities: []string{"Austin", "Boston"}, WorkModes: []string{"Hybrid", "Remote"}},
			[]int{6, 12},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(Apply(all, tt.f, SortRecent)))
		})
	}
}

func TestSort(t *testing.T) {
	all := catalog(t).All()

	require.Equal(t, []int{12, 8, 10, 5, 9, 3, 4, 2, 6, 1, 7, 11}, ids(Apply(all, Filter{}, SortSalary)))

	jobs := []model.Job{
		{ID: 1, PostedDate: "Fri Nov 01 2024"},
		{ID: 2, PostedDate: "Mon Nov 04 2024"},
		{ID: 3, PostedDate: "not a date"},
		{ID: 4, PostedDate: "Mon Nov 04 2024"},
	}
	Sort(jobs, SortRecent)
	require.Equal(t, []int{2, 4, 1, 3}, ids(jobs))

	Sort(jobs, "unknown")
	require.Equal(t, []int{2, 4, 1, 3}, ids(jobs))
}

func TestSort_Company(t *testing.T) {
	jobs := []model.Job{
		{ID: 1, Company: "globex"},
		{ID: 2, Company: "Acme"},
		{ID: 3, Company: "Initech"},
		{ID: 4, Company: "acme"},
		{ID: 5, Company: "Globex"},
	}
	Sort(jobs, SortCompany)
	require.Equal(t, []int{2, 4, 1, 5, 3}, ids(jobs), "case is ignored and ties keep their order")
}
