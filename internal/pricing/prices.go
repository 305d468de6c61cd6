package pricing

// onDemandHourly is the static on-demand price table in USD per hour,
// us-east-1 list prices. On-demand prices move rarely enough that a static
// table beats an extra Pricing API dependency; spot prices are always live.
var onDemandHourly = map[string]float64{
	"g4dn.xlarge":  1.19,
	"g4dn.2xlarge": 2.38,
	"g4ad.xlarge":  0.87,
	"g4ad.2xlarge": 1.73,
	"g5.xlarge":    1.41,
	"g5.2xlarge":   2.12,
	"g5g.xlarge":   0.75,
	"g5g.2xlarge":  1.17,
	"g6.xlarge":    1.25,
	"g6.2xlarge":   1.98,
	"p3.2xlarge":   3.06,
}

// OnDemandPrice returns the static on-demand hourly price for an instance
// type, and whether the type is in the table.
func OnDemandPrice(instanceType string) (float64, bool) {
	price, ok := onDemandHourly[instanceType]
	return price, ok
}
