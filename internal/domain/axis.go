package domain

// AxisSpec is a rounded chart-axis domain with explicit tick values.
// Auto means the input was empty and the rendering layer should fall
// back to its own default scaling; Min/Max/Ticks are meaningless then.
type AxisSpec struct {
	Auto  bool
	Min   float64
	Max   float64
	Ticks []float64
}
