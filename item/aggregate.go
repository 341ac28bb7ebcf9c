package item

import (
	"encoding/json"
	"math"
)

// Aggregate summarizes a collection. AveragePrice is NaN for an empty collection
// and is encoded as JSON null in that case.
type Aggregate struct {
	Total        int
	AveragePrice float64
}

type aggregateJSON struct {
	Total        int      `json:"total"`
	AveragePrice *float64 `json:"averagePrice"`
}

// ComputeAggregate counts items and averages their prices.
func ComputeAggregate(items []Item) Aggregate {
	if len(items) == 0 {
		return Aggregate{Total: 0, AveragePrice: math.NaN()}
	}

	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return Aggregate{
		Total:        len(items),
		AveragePrice: sum / float64(len(items)),
	}
}

// HasAverage reports whether AveragePrice is a finite number.
func (a Aggregate) HasAverage() bool {
	return !math.IsNaN(a.AveragePrice) && !math.IsInf(a.AveragePrice, 0)
}

func (a Aggregate) MarshalJSON() ([]byte, error) {
	out := aggregateJSON{Total: a.Total}
	if a.HasAverage() {
		avg := a.AveragePrice
		out.AveragePrice = &avg
	}
	return json.Marshal(out)
}

func (a *Aggregate) UnmarshalJSON(data []byte) error {
	var in aggregateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	a.Total = in.Total
	a.AveragePrice = math.NaN()
	if in.AveragePrice != nil {
		a.AveragePrice = *in.AveragePrice
	}
	return nil
}
