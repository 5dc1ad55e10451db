package ai

// ModuleTypes defines the valid classification targets for vendor text.
// These are the product/service categories offered by white-label
// financial infrastructure providers.
var ModuleTypes = []string{
	"Wallet Base",
	"Wallet Avanzado",
	"KYC/KYB",
	"Tarjeta",
	"Trading Platform",
	"Payment Gateway",
	"Liquidity Provider",
	"Compliance",
	"API Integration",
	"White Label Solution",
	"Otro",
}

// IsKnownModule reports whether a label is one of the recognized module
// categories.
func IsKnownModule(label string) bool {
	for _, m := range ModuleTypes {
		if m == label {
			return true
		}
	}
	return false
}

// Classification is a module label with the model's confidence in it.
type Classification struct {
	Module     string
	Confidence int // 0-100
}

// PriceEstimate is an extracted price with the model's confidence in it.
// Value is "" when the model found no price.
type PriceEstimate struct {
	Value      string
	Confidence int // 0-100
}

// CommercialAnalysis is the full structured output of the fallback
// language model for one piece of vendor text.
type CommercialAnalysis struct {
	EstimatedPrice string
	Module         string
	Conditions     map[string]string
	Confidence     int // 0-100
}

// SemanticValidation is the fallback model's independent judgment on
// whether two observations describe the same commercial fact.
type SemanticValidation struct {
	Confidence    int // 0-100
	Justification string
}
