package risk

import "math"

// maxPriceSteps caps how far a price deviation can shift the target holding.
const maxPriceSteps = 3

// RebalanceInputs describes one evaluation of the stepped rebalancing rule.
type RebalanceInputs struct {
	Price        float64 // current unit price
	AveragePrice float64 // trailing rolling mean of the unit price
	SharesHeld   float64
	TargetShares float64 // holding wanted when the price sits at its average
	StepSize     float64 // shares shifted per price step
	PriceStep    float64 // price distance of one step
}

// PriceSteps returns how many whole price steps the price sits above (positive)
// or below (negative) its average, rounded half to even and clamped to [-3, 3].
func PriceSteps(price, average, priceStep float64) int {
	if priceStep <= 0 {
		return 0
	}
	n := math.RoundToEven((price - average) / priceStep)
	n = math.Max(n, -maxPriceSteps)
	n = math.Min(n, maxPriceSteps)
	return int(n)
}

// Rebalance returns the signed number of shares to trade: positive to buy,
// negative to sell. Above the average the target holding shrinks by StepSize
// per price step, below it grows.
func Rebalance(in RebalanceInputs) float64 {
	n := PriceSteps(in.Price, in.AveragePrice, in.PriceStep)
	if n != 0 {
		return in.TargetShares - float64(n)*in.StepSize - in.SharesHeld
	}
	return in.TargetShares - in.SharesHeld
}
