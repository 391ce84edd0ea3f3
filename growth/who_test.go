package growth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nurture "github.com/bill2712/nursing-tracker"
)

func TestAgeInMonths(t *testing.T) {
	birth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0, AgeInMonths(birth, birth), 1e-9)
	assert.InDelta(t, 1, AgeInMonths(birth, birth.Add(time.Duration(DaysPerMonth*24*float64(time.Hour)))), 1e-6)
	assert.InDelta(t, 12, AgeInMonths(birth, birth.AddDate(1, 0, 0)), 0.05)
}

func TestTable(t *testing.T) {
	for _, m := range []Metric{Weight, Length, HeadCircumference} {
		for _, sex := range []nurture.Sex{nurture.Boy, nurture.Girl} {
			table := Table(m, sex)
			require.NotEmpty(t, table, "%s %s", m, sex)
			for i := 1; i < len(table); i++ {
				assert.Greater(t, table[i].Month, table[i-1].Month)
			}
			for _, p := range table {
				assert.Less(t, p.P3, p.P50)
				assert.Less(t, p.P50, p.P97)
			}
		}
	}
	assert.Nil(t, Table(Metric(99), nurture.Boy))
}

func TestNearest(t *testing.T) {
	p, ok := Nearest(HeadCircumference, nurture.Girl, 4.4)
	require.True(t, ok)
	assert.Equal(t, 3.0, p.Month)

	p, ok = Nearest(HeadCircumference, nurture.Girl, 4.6)
	require.True(t, ok)
	assert.Equal(t, 6.0, p.Month)

	p, ok = Nearest(Weight, nurture.Boy, 40)
	require.True(t, ok)
	assert.Equal(t, 24.0, p.Month)
}

func TestClassify(t *testing.T) {
	p := Point{Month: 0, P3: 2.5, P50: 3.3, P97: 4.3}
	assert.Equal(t, BelowP3, Classify(2.4, p))
	assert.Equal(t, P3ToP50, Classify(2.5, p))
	assert.Equal(t, P50ToP97, Classify(3.3, p))
	assert.Equal(t, P50ToP97, Classify(4.3, p))
	assert.Equal(t, AboveP97, Classify(4.4, p))
}

func TestAssess(t *testing.T) {
	birth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := nurture.BabyProfile{Sex: nurture.Boy, BirthDate: birth}

	out := Assess(profile, nurture.GrowthRecord{Date: birth.AddDate(0, 6, 0), WeightKg: 10.5, LengthCm: 67})
	require.Len(t, out, 2)
	assert.Equal(t, Weight, out[0].Metric)
	assert.Equal(t, 6.0, out[0].Reference.Month)
	assert.Equal(t, AboveP97, out[0].Band)
	assert.Equal(t, Length, out[1].Metric)
	assert.Equal(t, P3ToP50, out[1].Band)
}

func TestUnits(t *testing.T) {
	assert.InDelta(t, 2.20462, KgToLb(1), 1e-9)
	assert.InDelta(t, 1, LbToKg(KgToLb(1)), 1e-9)
	assert.InDelta(t, 2.54, InToCm(1), 1e-9)
	assert.Equal(t, "3.20kg", FormatWeight(3.2, "kg"))
	assert.Equal(t, "7.05lb", FormatWeight(3.2, "lb"))
	assert.Equal(t, "50.0cm", FormatLength(50, "cm"))
	assert.Equal(t, "19.7in", FormatLength(50, "in"))
	assert.InDelta(t, 3.2, LbToKg(7.05), 0.01)
	assert.InDelta(t, 50, InToCm(19.685), 0.01)
}
