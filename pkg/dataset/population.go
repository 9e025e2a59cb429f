package dataset

// DefaultPopulation is used for states missing from the population table.
const DefaultPopulation = 50_000_000

// populationMillions is the approximate resident population per state, in millions.
var populationMillions = map[string]float64{
	"Uttar Pradesh":     200,
	"Maharashtra":       112,
	"Bihar":             104,
	"West Bengal":       91,
	"Madhya Pradesh":    73,
	"Tamil Nadu":        72,
	"Rajasthan":         69,
	"Karnataka":         61,
	"Gujarat":           60,
	"Andhra Pradesh":    49,
	"Odisha":            42,
	"Telangana":         35,
	"Kerala":            33,
	"Jharkhand":         33,
	"Assam":             31,
	"Punjab":            28,
	"Chhattisgarh":      26,
	"Haryana":           25,
	"Delhi":             17,
	"Jammu and Kashmir": 13,
	"Uttarakhand":       10,
	"Himachal Pradesh":  7,
	"Tripura":           4,
	"Meghalaya":         3,
	"Manipur":           3,
	"Nagaland":          2,
	"Goa":               1.5,
	"Arunachal Pradesh": 1.4,
	"Mizoram":           1.1,
	"Sikkim":            0.6,
	"Puducherry":        1.2,
	"Chandigarh":        1,
}

// Population returns the resident population of a state, or DefaultPopulation.
func Population(state string) float64 {
	if m, ok := populationMillions[CanonicalState(state)]; ok {
		return m * 1_000_000
	}
	return DefaultPopulation
}

// borderStates share an international land border.
var borderStates = map[string]bool{
	"West Bengal":       true,
	"Assam":             true,
	"Jammu and Kashmir": true,
	"Punjab":            true,
	"Rajasthan":         true,
	"Tripura":           true,
	"Meghalaya":         true,
	"Manipur":           true,
}

// IsBorderState reports whether a state is on the international border list.
func IsBorderState(state string) bool {
	return borderStates[CanonicalState(state)]
}
