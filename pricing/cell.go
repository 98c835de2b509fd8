package pricing

// Cell is the live price per unit of one asset. Every lot of the asset
// holds a pointer to the same Cell, so a single Update reprices all of them.
type Cell struct {
	value float64
}

// NewCell returns a Cell starting at price. The price must be strictly positive.
func NewCell(price float64) *Cell {
	return &Cell{value: price}
}

func (c *Cell) Value() float64 { return c.value }

// Update replaces the price with p.Next(current).
func (c *Cell) Update(p Process) {
	c.value = p.Next(c.value)
}
