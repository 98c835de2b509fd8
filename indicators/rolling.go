package indicators

import "fmt"

// RollingMean is a streaming mean over the most recent window values. Once
// full, each Update drops the oldest value.
type RollingMean struct {
	window int
	values []float64
}

// NewRollingMean creates a rolling mean over window values (at least 1).
func NewRollingMean(window int) *RollingMean {
	if window < 1 {
		window = 1
	}
	return &RollingMean{
		window: window,
		values: make([]float64, 0, window),
	}
}

func (m *RollingMean) Name() string {
	return fmt.Sprintf("RollingMean(%d)", m.window)
}

func (m *RollingMean) Window() int { return m.window }

func (m *RollingMean) Len() int { return len(m.values) }

func (m *RollingMean) Reset() {
	m.values = m.values[:0]
}

func (m *RollingMean) Update(v float64) {
	if len(m.values) == m.window {
		copy(m.values, m.values[1:])
		m.values = m.values[:m.window-1]
	}
	m.values = append(m.values, v)
}

// Ready reports whether the window is full.
func (m *RollingMean) Ready() bool {
	return len(m.values) == m.window
}

// Value is the mean of the values currently held, or 0 when empty.
func (m *RollingMean) Value() float64 {
	if len(m.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m.values {
		sum += v
	}
	return sum / float64(len(m.values))
}
