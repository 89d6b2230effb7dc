package scoring

import (
	"math"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// vatRate is the fixed domestic VAT assumption. A policy constant, not
// user-configurable.
const vatRate = 0.10

// scenarioDeltas are the selling-price variations in the sensitivity table.
var scenarioDeltas = []float64{-20, -10, 10, 20}

// CalculateProfitability derives a per-unit profitability report from the
// input. Stateless and recomputed per call.
func (e *Engine) CalculateProfitability(input model.ProfitabilityInput) (model.ProfitabilityReport, error) {
	if input.SellingPrice <= 0 {
		metrics.RecordScoringError()
		return model.ProfitabilityReport{}, ErrInvalidSellingPrice
	}
	if input.ProductCost < 0 {
		metrics.RecordScoringError()
		return model.ProfitabilityReport{}, ErrInvalidProductCost
	}

	report := profitabilityAt(input, input.SellingPrice)
	report.Scenarios = make([]model.PriceScenario, 0, len(scenarioDeltas))
	for _, delta := range scenarioDeltas {
		price := input.SellingPrice * (1 + delta/100)
		alt := profitabilityAt(input, price)
		report.Scenarios = append(report.Scenarios, model.PriceScenario{
			PriceDeltaPercent: delta,
			SellingPrice:      round2(price),
			NetProfit:         alt.NetProfit,
			MarginPercent:     alt.ProfitMarginPercent,
		})
	}

	metrics.RecordProfitabilityReport()
	return report, nil
}

// profitabilityAt evaluates the cost model at the given selling price.
// Shipping is treated as the fixed cost component of a launch; product
// cost, fees, VAT and expected returns vary with each unit sold.
func profitabilityAt(input model.ProfitabilityInput, price float64) model.ProfitabilityReport {
	fee := price * input.FeeRatePercent / 100
	returnCost := price * input.ReturnRatePercent / 100
	vat := price * vatRate

	variableCost := input.ProductCost + fee + vat + returnCost
	totalCost := variableCost + input.ShippingCost
	netProfit := price - totalCost

	report := model.ProfitabilityReport{
		Revenue:             round2(price),
		TotalCost:           round2(totalCost),
		NetProfit:           round2(netProfit),
		ProfitMarginPercent: round2(netProfit / price * 100),
	}

	if contribution := price - variableCost; contribution > 0 {
		report.BreakEvenFeasible = true
		report.BreakEvenUnits = int(math.Ceil(input.ShippingCost / contribution))
	}
	return report
}
