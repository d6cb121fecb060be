// Package rating implements the two-player TrueSkill belief update used by the ladder.
//
// A player's skill is a Gaussian belief (Mu, Sigma). After a decisive match the winner's
// mean moves up, the loser's moves down, and both uncertainties shrink. Draws are never
// modelled, so the update is the closed-form truncated Gaussian for the 1-vs-1 win case.
package rating

import "math"

const (
	DefaultMu       = 25.0
	DefaultSigma    = DefaultMu / 3
	DefaultBeta     = DefaultSigma / 2
	DefaultMinSigma = 0.01

	// ExposureFactor is the number of standard deviations subtracted from Mu
	// when a single conservative figure is needed.
	ExposureFactor = 3.0
)

// Belief is a Gaussian skill estimate.
type Belief struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Exposure is the conservative rating Mu - 3*Sigma.
func (b Belief) Exposure() float64 {
	return b.Mu - ExposureFactor*b.Sigma
}

// Model holds the update parameters. The zero value is not usable, use DefaultModel.
type Model struct {
	Mu0      float64 // prior mean for new players
	Sigma0   float64 // prior deviation for new players
	Beta     float64 // performance deviation
	Tau      float64 // dynamics added to sigma before an update; 0 keeps sigma monotone
	MinSigma float64 // floor for posterior sigma
}

func DefaultModel() Model {
	return Model{
		Mu0:      DefaultMu,
		Sigma0:   DefaultSigma,
		Beta:     DefaultBeta,
		Tau:      0,
		MinSigma: DefaultMinSigma,
	}
}

// Prior is the belief assigned to a player with no history.
func (m Model) Prior() Belief {
	return Belief{Mu: m.Mu0, Sigma: m.Sigma0}
}

// Update returns the posteriors of winner and loser after winner beat loser.
func (m Model) Update(winner, loser Belief) (Belief, Belief) {
	varW := winner.Sigma*winner.Sigma + m.Tau*m.Tau
	varL := loser.Sigma*loser.Sigma + m.Tau*m.Tau

	c2 := 2*m.Beta*m.Beta + varW + varL
	c := math.Sqrt(c2)
	t := (winner.Mu - loser.Mu) / c

	v := vWin(t)
	w := wWin(t)

	newWinner := Belief{
		Mu:    winner.Mu + (varW/c)*v,
		Sigma: m.floor(math.Sqrt(varW * (1 - (varW/c2)*w))),
	}
	newLoser := Belief{
		Mu:    loser.Mu - (varL/c)*v,
		Sigma: m.floor(math.Sqrt(varL * (1 - (varL/c2)*w))),
	}
	return newWinner, newLoser
}

// WinProbability is the chance that a beats b under the model.
func (m Model) WinProbability(a, b Belief) float64 {
	denom := math.Sqrt(2*m.Beta*m.Beta + a.Sigma*a.Sigma + b.Sigma*b.Sigma)
	return cdf((a.Mu - b.Mu) / denom)
}

func (m Model) floor(sigma float64) float64 {
	if math.IsNaN(sigma) || sigma < m.MinSigma {
		return m.MinSigma
	}
	return sigma
}

// vWin is the additive mean correction for a win without draw margin.
func vWin(t float64) float64 {
	denom := cdf(t)
	if denom < math.SmallestNonzeroFloat64 {
		return -t
	}
	return pdf(t) / denom
}

// wWin is the multiplicative variance correction for a win. Far past the point where
// the loss tail underflows it tends to 1, which vWin's asymptote alone would give as 0.
func wWin(t float64) float64 {
	if cdf(t) < math.SmallestNonzeroFloat64 {
		if t < 0 {
			return 1
		}
		return 0
	}
	v := vWin(t)
	return v * (v + t)
}

func pdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func cdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
