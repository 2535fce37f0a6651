package convert

import "strings"

// Profile holds the concrete encoder parameters a compression tier resolves to.
type Profile struct {
	Tier           string
	ImageQuality   int // JPEG quality for standalone images, 1..100
	RasterDPI      int // rasterization resolution for PDF pages
	PDFJPEGQuality int // JPEG quality for re-encoded PDF pages, 1..100
}

// The three tiers. Ordering invariant: aggressive < balanced < mild for
// every numeric field (more compression means lower quality and resolution).
var (
	profileAggressive = Profile{Tier: "aggressive", ImageQuality: 40, RasterDPI: 72, PDFJPEGQuality: 35}
	profileBalanced   = Profile{Tier: "balanced", ImageQuality: 60, RasterDPI: 110, PDFJPEGQuality: 50}
	profileMild       = Profile{Tier: "mild", ImageQuality: 75, RasterDPI: 150, PDFJPEGQuality: 65}
)

// ResolveProfile maps a qualitative compression level to encoder parameters.
// Matching is case-insensitive over synonym groups; unrecognized or empty
// input resolves to the mild tier, the least destructive choice.
func ResolveProfile(level string) Profile {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "large", "high":
		return profileAggressive
	case "medium":
		return profileBalanced
	case "less", "low":
		return profileMild
	default:
		return profileMild
	}
}
