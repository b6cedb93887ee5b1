package params

const (
	// CombWidthThreshold is the order bit length from which the generator comb uses
	// 6-bit columns instead of 5.
	CombWidthThreshold = 257
	CombWidthSmall     = 5
	CombWidthLarge     = 6

	// MinWindow and MaxWindow clamp the wNAF window width.
	MinWindow = 2
	MaxWindow = 16

	// TauWidth is the window of the τ-adic NAF on Koblitz curves, and TauPow2Width = 2^TauWidth.
	TauWidth     = 4
	TauPow2Width = 1 << TauWidth
	// TauPrecision is the number of fractional bits kept by the approximate division
	// in the partial modular reduction.
	TauPrecision = 10

	// MaxIterations bounds the retry loops of sampling and signing.
	MaxIterations = 255
)

// WindowCutoffs are the scalar bit lengths at which the wNAF window grows by one,
// starting from MinWindow.
var WindowCutoffs = [...]int{13, 41, 121, 337, 897, 2305}
