// Package economy describes burden arithmetic for the knapsack solver and
// the goblin controller: the rules for combining, comparing, and accepting
// costs against a capacity. Two algebras are provided — Scalar, where
// burden is a plain nonnegative real, and Normal, which layers a
// mean/variance pair with a sigma-margin acceptability test on top of it.
package economy

import "math"

// Algebra is the burden algebra a knapsack solver or goblin controller is
// instantiated over. B is the burden type, C is the capacity type against
// which a burden is judged acceptable.
//
// The solver's inner loops are instantiated per algebra (no virtual
// dispatch): calling code picks a concrete Algebra implementation and the
// compiler specializes Solver[B, C] for it.
type Algebra[B any, C any] interface {
	// Zero is the additive identity: no burden at all.
	Zero() B

	// Infinite is a burden that can never be accepted.
	Infinite() B

	// IsPossible reports whether a burden could ever be borne, i.e. it is
	// finite in every component.
	IsPossible(b B) bool

	// Lesser reports whether lhs is strictly less burdensome than rhs.
	// For probabilistic burdens this is a total order suitable for
	// frontier pruning, not necessarily the same order acceptability uses.
	Lesser(lhs, rhs B) bool

	// Acceptable reports whether a burden fits within a capacity.
	Acceptable(b B, c C) bool

	Add(a, b B) B
	Sub(a, b B) B
	Scale(b B, factor float64) B
}

// Scalar is the burden algebra for a plain nonnegative real burden, with
// capacity of the same type. Acceptable is strict: b < c.
type Scalar struct{}

func (Scalar) Zero() float64     { return 0 }
func (Scalar) Infinite() float64 { return math.Inf(1) }

func (Scalar) IsPossible(b float64) bool {
	return !math.IsInf(b, 1) && !math.IsInf(b, -1) && !math.IsNaN(b)
}

func (Scalar) Lesser(lhs, rhs float64) bool { return lhs < rhs }

func (Scalar) Acceptable(b, c float64) bool { return b < c }

func (Scalar) Add(a, b float64) float64             { return a + b }
func (Scalar) Sub(a, b float64) float64             { return a - b }
func (Scalar) Scale(b float64, factor float64) float64 { return b * factor }

var _ Algebra[float64, float64] = Scalar{}

// NormalBurden is a burden modeled as independent mean and variance.
type NormalBurden struct {
	Mean float64
	Var  float64
}

// NormalCapacity is a maximum mean burden plus a sigma margin: acceptable
// burdens must keep mean+sigmas*stddev strictly under Limit.
type NormalCapacity struct {
	Limit  float64
	Sigmas float64
}

// Normal layers a probabilistic economy on top of Scalar. There is no
// objective total order over normal burdens; for knapsack frontier
// purposes Lesser orders by mean only, and Acceptable is the true gate.
type Normal struct{}

func (Normal) Zero() NormalBurden     { return NormalBurden{Mean: 0, Var: 0} }
func (Normal) Infinite() NormalBurden { return NormalBurden{Mean: math.Inf(1), Var: 0} }

func (Normal) IsPossible(b NormalBurden) bool {
	base := Scalar{}
	return base.IsPossible(b.Mean) && base.IsPossible(b.Var)
}

// Lesser compares means only. Two burdens with equal mean but different
// variance are indistinguishable here — they are only told apart by
// Acceptable, at the point a capacity is actually applied.
func (Normal) Lesser(lhs, rhs NormalBurden) bool {
	return Scalar{}.Lesser(lhs.Mean, rhs.Mean)
}

// Acceptable uses the closed form (mean + sigmas*sqrt(var) < limit) <=>
// (sigmas^2 * var < (limit-mean)^2), which avoids a square root and is
// exact for the same constraint as long as mean < limit already holds.
func (Normal) Acceptable(b NormalBurden, c NormalCapacity) bool {
	if !(Scalar{}).Acceptable(b.Mean, c.Limit) {
		return false
	}
	margin := c.Limit - b.Mean
	return Scalar{}.Lesser(c.Sigmas*c.Sigmas*b.Var, margin*margin)
}

func (Normal) Add(a, b NormalBurden) NormalBurden {
	return NormalBurden{Mean: a.Mean + b.Mean, Var: a.Var + b.Var}
}

// Sub treats the two burdens as independent random variables: subtracting
// a mean still adds variance.
func (Normal) Sub(a, b NormalBurden) NormalBurden {
	return NormalBurden{Mean: a.Mean - b.Mean, Var: a.Var + b.Var}
}

func (Normal) Scale(b NormalBurden, factor float64) NormalBurden {
	return NormalBurden{Mean: b.Mean * factor, Var: b.Var * factor * factor}
}

var _ Algebra[NormalBurden, NormalCapacity] = Normal{}
