// Package model contains domain models passed between layers.
package model

// SalesRecord is one row of the cleaned sales dataset.
type SalesRecord struct {
	Model        string // product model name, e.g. "X5"
	Region       string // sales region, e.g. "Europe"
	FuelType     string // e.g. "Petrol", "Diesel", "Electric", "Hybrid"
	Transmission string // e.g. "Automatic", "Manual"
	Color        string

	Year        int
	PriceUSD    float64
	SalesVolume float64 // units sold for this row
	EngineSizeL float64
	MileageKM   float64

	// Optional columns; nil/empty when absent from the source file.
	TotalRevenue  *float64
	PriceCategory string
	ModelCategory string
}

// HasRevenue reports whether the record carries the optional revenue column.
func (r SalesRecord) HasRevenue() bool {
	return r.TotalRevenue != nil
}
