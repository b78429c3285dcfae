package coherence

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

// Metric selects the pairwise coherence formula.
type Metric string

const (
	// UMass is ln((D(i,j) + ε) / D(i)); the default.
	UMass Metric = "umass"
	// NPMI is normalised pointwise mutual information over document counts.
	NPMI Metric = "npmi"
)

// ParseMetric maps a config value to a Metric. Empty means UMass.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", UMass:
		return UMass, nil
	case NPMI:
		return NPMI, nil
	}
	return "", fmt.Errorf("coherence metric %q: %w", s, internalerr.ErrInvalidConfig)
}

// Calculator handles document co-occurrence scoring
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a new calculator with the given epsilon
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// UMass calculates the asymmetric UMass pair score
//
// UMass(i,j) = log((N_ij + ε) / N_i)
//
// Where:
//   - N_ij = number of documents containing both i and j
//   - N_i = number of documents containing i; must be positive
//   - ε = smoothing constant (default 1.0)
func (c *Calculator) UMass(nIJ, nI int64) float64 {
	return math.Log((float64(nIJ) + c.epsilon) / float64(nI))
}

// PMI calculates the pointwise mutual information between two tokens
//
// PMI(a,b) = log((N_ab + ε) * N / ((N_a + ε)(N_b + ε)))
func (c *Calculator) PMI(nAB, nA, nB, N int64) float64 {
	if N == 0 {
		return 0
	}

	numerator := (float64(nAB) + c.epsilon) * float64(N)
	denominator := (float64(nA) + c.epsilon) * (float64(nB) + c.epsilon)

	return math.Log(numerator / denominator)
}

// NPMI calculates normalized PMI (range: -1 to 1)
// NPMI(a,b) = PMI(a,b) / -log(P(a,b))
func (c *Calculator) NPMI(nAB, nA, nB, N int64) float64 {
	if N == 0 || nAB == 0 {
		return 0
	}

	pmi := c.PMI(nAB, nA, nB, N)
	pAB := (float64(nAB) + c.epsilon) / float64(N)
	logPAB := math.Log(pAB)

	if logPAB == 0 {
		return 0
	}

	return pmi / -logPAB
}
