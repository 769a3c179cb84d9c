package forecast

import (
	"math"
	"math/rand"

	"agrohub-ai/models"
)

const (
	sequenceMinPoints = 30
	sequenceMaxWindow = 14
	sequenceMinWindow = 5
	sequenceHidden    = 16
	sequenceEpochs    = 40
	sequenceLearnRate = 0.01
	sequenceGradClip  = 5.0
)

// sequenceStrategy trains a small recurrent regressor on sliding windows of
// the normalized series and rolls it forward autoregressively: each
// prediction is appended to the input for the next step. Values are
// normalized by the series maximum before training and denormalized after,
// with negative outputs clamped to zero.
type sequenceStrategy struct{}

func (sequenceStrategy) Name() string { return "sequence" }

func (sequenceStrategy) Produce(series []models.TimeSeriesPoint, horizon int) ([]float64, bool) {
	if len(series) < sequenceMinPoints {
		return nil, false
	}
	window := len(series) / 2
	if window > sequenceMaxWindow {
		window = sequenceMaxWindow
	}
	if window < sequenceMinWindow {
		return nil, false
	}

	values := make([]float64, len(series))
	maxValue := 0.0
	for i, p := range series {
		values[i] = p.Value
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}
	// A flat-zero series would otherwise divide by zero.
	if maxValue == 0 {
		maxValue = 1
	}
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / maxValue
	}

	var inputs [][]float64
	var targets []float64
	for i := 0; i+window < len(scaled); i++ {
		inputs = append(inputs, scaled[i:i+window])
		targets = append(targets, scaled[i+window])
	}

	net := newRecurrentNet(sequenceHidden, rand.New(rand.NewSource(42)))
	net.train(inputs, targets, sequenceEpochs, sequenceLearnRate)

	recent := append([]float64(nil), scaled[len(scaled)-window:]...)
	out := make([]float64, horizon)
	for i := range out {
		next := net.predict(recent[len(recent)-window:])
		out[i] = next
		recent = append(recent, next)
	}

	for i, v := range out {
		denorm := v * maxValue
		if denorm < 0 {
			denorm = 0
		}
		out[i] = denorm
	}
	return out, true
}

// recurrentNet is a single-layer Elman network with a scalar input and a
// linear readout, trained with full backpropagation through time.
type recurrentNet struct {
	hidden int
	wxh    []float64   // input -> hidden
	whh    [][]float64 // hidden -> hidden
	bh     []float64
	why    []float64 // hidden -> output
	by     float64
}

func newRecurrentNet(hidden int, rng *rand.Rand) *recurrentNet {
	n := &recurrentNet{
		hidden: hidden,
		wxh:    make([]float64, hidden),
		whh:    make([][]float64, hidden),
		bh:     make([]float64, hidden),
		why:    make([]float64, hidden),
	}
	scale := 1.0 / math.Sqrt(float64(hidden))
	for i := 0; i < hidden; i++ {
		n.wxh[i] = rng.NormFloat64() * scale
		n.why[i] = rng.NormFloat64() * scale
		n.whh[i] = make([]float64, hidden)
		for j := 0; j < hidden; j++ {
			n.whh[i][j] = rng.NormFloat64() * scale
		}
	}
	return n
}

// forward runs the network over seq and returns the prediction along with
// every hidden state, which backpropagation needs.
func (n *recurrentNet) forward(seq []float64) (float64, [][]float64) {
	states := make([][]float64, len(seq))
	prev := make([]float64, n.hidden)
	for t, x := range seq {
		h := make([]float64, n.hidden)
		for i := 0; i < n.hidden; i++ {
			sum := n.wxh[i]*x + n.bh[i]
			for j := 0; j < n.hidden; j++ {
				sum += n.whh[i][j] * prev[j]
			}
			h[i] = math.Tanh(sum)
		}
		states[t] = h
		prev = h
	}
	y := n.by
	for i := 0; i < n.hidden; i++ {
		y += n.why[i] * prev[i]
	}
	return y, states
}

func (n *recurrentNet) predict(seq []float64) float64 {
	y, _ := n.forward(seq)
	return y
}

func (n *recurrentNet) train(inputs [][]float64, targets []float64, epochs int, rate float64) {
	for epoch := 0; epoch < epochs; epoch++ {
		for s, seq := range inputs {
			n.step(seq, targets[s], rate)
		}
	}
}

// step performs one stochastic gradient update for a single window.
func (n *recurrentNet) step(seq []float64, target, rate float64) {
	y, states := n.forward(seq)
	dy := y - target

	gwxh := make([]float64, n.hidden)
	gbh := make([]float64, n.hidden)
	gwhy := make([]float64, n.hidden)
	gwhh := make([][]float64, n.hidden)
	for i := range gwhh {
		gwhh[i] = make([]float64, n.hidden)
	}

	last := states[len(states)-1]
	dh := make([]float64, n.hidden)
	for i := 0; i < n.hidden; i++ {
		gwhy[i] = dy * last[i]
		dh[i] = dy * n.why[i]
	}
	gby := dy

	for t := len(seq) - 1; t >= 0; t-- {
		hprev := make([]float64, n.hidden)
		if t > 0 {
			hprev = states[t-1]
		}
		dprev := make([]float64, n.hidden)
		for i := 0; i < n.hidden; i++ {
			dpre := dh[i] * (1 - states[t][i]*states[t][i])
			gwxh[i] += dpre * seq[t]
			gbh[i] += dpre
			for j := 0; j < n.hidden; j++ {
				gwhh[i][j] += dpre * hprev[j]
				dprev[j] += n.whh[i][j] * dpre
			}
		}
		dh = dprev
	}

	n.by -= rate * clip(gby)
	for i := 0; i < n.hidden; i++ {
		n.wxh[i] -= rate * clip(gwxh[i])
		n.bh[i] -= rate * clip(gbh[i])
		n.why[i] -= rate * clip(gwhy[i])
		for j := 0; j < n.hidden; j++ {
			n.whh[i][j] -= rate * clip(gwhh[i][j])
		}
	}
}

func clip(g float64) float64 {
	if g > sequenceGradClip {
		return sequenceGradClip
	}
	if g < -sequenceGradClip {
		return -sequenceGradClip
	}
	return g
}
