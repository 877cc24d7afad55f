package facs

// Needs is an age (0..MaxAge) by building-category table of weekly minutes
// spent in each category. The school column is pre-scaled by 0.75 on
// construction, reflecting that a quarter of school time is spent outdoors
// or in breaks not subject to the indoor transmission model.
type Needs struct {
	numCategories int
	rows          [MaxAge + 1][]float64
}

// NewNeeds builds a Needs table from a dense age x category minutes matrix.
// schoolCategory identifies which column receives the 0.75 scale-down; pass
// -1 to skip it (useful in tests supplying pre-scaled data).
func NewNeeds(rows [][]float64, schoolCategory int) *Needs {
	n := &Needs{}
	if len(rows) == 0 {
		return n
	}
	n.numCategories = len(rows[0])
	for age := 0; age <= MaxAge && age < len(rows); age++ {
		row := make([]float64, n.numCategories)
		copy(row, rows[age])
		if schoolCategory >= 0 && schoolCategory < n.numCategories {
			row[schoolCategory] *= 0.75
		}
		n.rows[age] = row
	}
	return n
}

// Minutes returns the weekly minutes agents of the given age spend in the
// given category.
func (n *Needs) Minutes(age, category int) float64 {
	row := n.rows[clampAge(age)]
	if category < 0 || category >= len(row) {
		return 0
	}
	return row[category]
}

// Row returns a copy of the weekly-minutes row for the given age, safe for
// the caller to mutate (used by visit planning to apply home-from flags and
// the hospitalised-confined override without touching the shared table).
func (n *Needs) Row(age int) []float64 {
	src := n.rows[clampAge(age)]
	row := make([]float64, len(src))
	copy(row, src)
	return row
}

// NumCategories reports how many building categories the table covers.
func (n *Needs) NumCategories() int {
	return n.numCategories
}

// ScaleColumn multiplies every age row's entry for category by factor. Used
// by the measures engine to apply a needs-rescaling partial closure.
func (n *Needs) ScaleColumn(category int, factor float64) {
	if category < 0 {
		return
	}
	for age := 0; age <= MaxAge; age++ {
		if category < len(n.rows[age]) {
			n.rows[age][category] *= factor
		}
	}
}

// HospitalConfinedRow returns the saturated weekly-minutes profile used for
// hospitalised agents: all time credited to the hospital category, zero
// elsewhere.
func HospitalConfinedRow(numCategories, hospitalCategory int) []float64 {
	row := make([]float64, numCategories)
	if hospitalCategory >= 0 && hospitalCategory < numCategories {
		row[hospitalCategory] = 5040
	}
	return row
}
