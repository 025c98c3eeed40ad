package classifier

import (
	"gonum.org/v1/gonum/floats"

	"github.com/nao1215/smartpass/internal/feature"
	"github.com/nao1215/smartpass/internal/model"
)

// Classifier is an immutable k-nearest-neighbour model.
type Classifier struct {
	k      int
	min    []float64
	span   []float64
	points [][]float64
	labels []model.Label
}

// Neighbor is one of the k samples nearest to a query.
type Neighbor struct {
	// Index is the sample position in the artifact.
	Index int `json:"index"`

	// Distance is the Euclidean distance in scaled feature space.
	Distance float64 `json:"distance"`

	// Label is the sample's label.
	Label model.Label `json:"label"`
}

// Explanation describes how Classify reached its decision.
type Explanation struct {
	Label     model.Label         `json:"label"`
	Votes     map[model.Label]int `json:"votes"`
	Neighbors []Neighbor          `json:"neighbors"`
}

// newClassifier scales every sample once so queries only scale themselves.
func newClassifier(a artifact) *Classifier {
	c := &Classifier{
		k:      a.K,
		min:    append([]float64(nil), a.Min...),
		span:   make([]float64, len(a.Min)),
		points: make([][]float64, len(a.Samples)),
		labels: make([]model.Label, len(a.Samples)),
	}
	for i := range a.Min {
		c.span[i] = a.Max[i] - a.Min[i]
	}
	for i, s := range a.Samples {
		c.points[i] = c.scale(s.Features)
		c.labels[i] = s.Label
	}
	return c
}

// K returns the neighbour count.
func (c *Classifier) K() int {
	return c.k
}

// Size returns the number of samples in the model.
func (c *Classifier) Size() int {
	return len(c.points)
}

// Classify returns the strength label of v. It always returns one of
// model.Labels.
func (c *Classifier) Classify(v feature.Vector) model.Label {
	return c.Explain(v).Label
}

// ClassifyPassword extracts the features of password and classifies them.
func (c *Classifier) ClassifyPassword(password string) model.Label {
	return c.Classify(feature.Extract(password))
}

// Explain classifies v and returns the neighbours and votes behind the label.
//
// The label with the most votes among the k nearest samples wins. A tie
// goes to the tied label whose closest neighbour is nearer to v, and a tie
// on that distance goes to the weaker label.
//
// Design decision: We break ties by neighbour distance and then by label
// order rather than by map iteration or sample order because:
//  1. The same password always gets the same label across runs and builds
//  2. The nearer sample is the better evidence when the vote is split
//  3. Falling back to the weaker label never overstates a password
func (c *Classifier) Explain(v feature.Vector) Explanation {
	neighbors := c.nearest(c.scale(v.Values()))

	var votes [3]int
	nearestOf := [3]float64{}
	seen := [3]bool{}
	for _, n := range neighbors {
		votes[n.Label]++
		if !seen[n.Label] {
			// neighbours are sorted, so the first hit is the nearest
			nearestOf[n.Label] = n.Distance
			seen[n.Label] = true
		}
	}

	best := model.LabelWeak
	found := false
	for _, l := range model.Labels {
		if !seen[l] {
			continue
		}
		switch {
		case !found:
			best, found = l, true
		case votes[l] > votes[best]:
			best = l
		case votes[l] == votes[best] && nearestOf[l] < nearestOf[best]:
			best = l
		}
	}

	counts := make(map[model.Label]int, len(model.Labels))
	for _, l := range model.Labels {
		counts[l] = votes[l]
	}

	return Explanation{Label: best, Votes: counts, Neighbors: neighbors}
}

// scale maps raw feature values into [0, 1] using the training bounds.
// Dimensions with no spread scale to 0.
func (c *Classifier) scale(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, x := range values {
		if c.span[i] == 0 {
			continue
		}
		out[i] = (x - c.min[i]) / c.span[i]
	}
	return out
}

// nearest returns the k samples closest to q ordered by (distance, index).
func (c *Classifier) nearest(q []float64) []Neighbor {
	best := make([]Neighbor, 0, c.k+1)
	for i, p := range c.points {
		d := floats.Distance(q, p, 2)
		if len(best) == c.k && d >= best[len(best)-1].Distance {
			continue
		}

		// insertion keeps earlier indices ahead of equal distances
		pos := len(best)
		for pos > 0 && best[pos-1].Distance > d {
			pos--
		}
		best = append(best, Neighbor{})
		copy(best[pos+1:], best[pos:])
		best[pos] = Neighbor{Index: i, Distance: d, Label: c.labels[i]}

		if len(best) > c.k {
			best = best[:c.k]
		}
	}
	return best
}
