package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost acumula un precio ponderado por unidades: combina el promedio de qty unidades
// con inQty unidades nuevas a inPrice. Sin unidades devuelve cero.
func WeightedAverageCost(qty, price, inQty, inPrice decimal.Decimal) decimal.Decimal {
	total := qty.Add(inQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return qty.Mul(price).Add(inQty.Mul(inPrice)).Div(total)
}
