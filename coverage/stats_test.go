package coverage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func sampleDocument() *Document {
	return &Document{
		LineRate: 0.6,
		Packages: []Package{
			{
				Name: "app",
				Classes: []Class{
					{
						Name:     "app.Main",
						FileName: "src/main/app/Main.java",
						Lines: []Line{
							{Number: 1, Hits: 3},
							{Number: 2, Hits: 0},
							{Number: 3, Hits: 1, Branch: true, ConditionCoverage: ptr("50% (1/2)")},
						},
					},
				},
			},
			{
				Name: "util",
				Classes: []Class{
					{
						Name:     "util.Strings",
						FileName: "src/main/util/Strings.java",
						Lines: []Line{
							{Number: 4, Hits: 1, Branch: true, ConditionCoverage: ptr("100% (4/4)")},
							{Number: 5, Hits: 0},
						},
					},
					{
						Name:     "util.StringsTest",
						FileName: "src/test/util/StringsTest.java",
					},
				},
			},
		},
	}
}

func TestLineStats(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, Stats{Covered: 3, Valid: 5}, doc.LineStats())
	assert.Equal(t, Stats{Covered: 2, Valid: 3}, doc.Packages[0].LineStats())
	assert.Equal(t, Stats{Covered: 1, Valid: 2}, doc.Packages[1].Classes[0].LineStats())
	assert.Equal(t, Stats{}, doc.Packages[1].Classes[1].LineStats())
	assert.InDelta(t, 0.6, doc.LineStats().Rate(), 1e-9)
	assert.Zero(t, Stats{}.Rate())
}

func TestBranchStats(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, Stats{Covered: 5, Valid: 6}, doc.BranchStats())
	assert.Equal(t, Stats{Covered: 1, Valid: 2}, doc.Packages[0].BranchStats())
	assert.Equal(t, Stats{Covered: 4, Valid: 4}, doc.Packages[1].BranchStats())

	noBranch := Line{Hits: 1, ConditionCoverage: ptr("50% (1/2)")}
	assert.Equal(t, Stats{}, noBranch.BranchStats(), "branch=false ignores condition-coverage")
}

func TestFullyCovered(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want bool
	}{
		{"hit", Line{Hits: 1}, true},
		{"missed", Line{Hits: 0}, false},
		{"partial branch", Line{Hits: 2, Branch: true, ConditionCoverage: ptr("50% (1/2)")}, false},
		{"full branch", Line{Hits: 2, Branch: true, ConditionCoverage: ptr("100% (2/2)")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.FullyCovered())
		})
	}
}

func TestParseConditionCoverage(t *testing.T) {
	tests := []struct {
		in   string
		want Stats
		ok   bool
	}{
		{"50% (1/2)", Stats{Covered: 1, Valid: 2}, true},
		{"100% (4/4)", Stats{Covered: 4, Valid: 4}, true},
		{"0% ( 0 / 3 )", Stats{Covered: 0, Valid: 3}, true},
		{"50%", Stats{}, false},
		{"(3/2)", Stats{}, false},
		{"(a/b)", Stats{}, false},
		{"(1-2)", Stats{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseConditionCoverage(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckLineRate(t *testing.T) {
	doc := sampleDocument()
	require.NoError(t, doc.CheckLineRate(0.001))

	doc.LineRate = 0.61
	require.NoError(t, doc.CheckLineRate(0.05))

	err := doc.CheckLineRate(0.001)
	var mismatch *RateMismatchError
	require.True(t, errors.As(err, &mismatch), "error = %v", err)
	assert.Equal(t, 0.61, mismatch.Declared)
	assert.InDelta(t, 0.6, mismatch.Computed, 1e-9)
	assert.Equal(t, Stats{Covered: 3, Valid: 5}, mismatch.Stats)
	assert.Contains(t, err.Error(), "3/5 lines")
}

func TestCheckThreshold(t *testing.T) {
	assert.NoError(t, CheckThreshold(0.8, 0.8))
	assert.NoError(t, CheckThreshold(0.9, 0))

	err := CheckThreshold(0.5, 0.75)
	var te *ThresholdError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "line coverage 50.00% is below the required 75.00%", err.Error())
}

func TestIterators(t *testing.T) {
	doc := sampleDocument()

	var numbers []uint64
	for l := range doc.Lines() {
		numbers = append(numbers, l.Number)
		if l.Number == 4 {
			break
		}
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, numbers)

	var names []string
	for pkg, class := range doc.Classes() {
		names = append(names, pkg.Name+":"+class.Name)
	}
	assert.Equal(t, []string{"app:app.Main", "util:util.Strings", "util:util.StringsTest"}, names)
}
