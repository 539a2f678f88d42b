package pdfdocx

import "strings"

// Quality selects how much layout fidelity the structural converter aims for.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityHighFidelity
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityHighFidelity:
		return "high-fidelity"
	}
	return "unknown"
}

// ParseQuality accepts fast, balanced and high-fidelity, plus the legacy
// low, medium and high names.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "low":
		return QualityFast, nil
	case "balanced", "medium", "":
		return QualityBalanced, nil
	case "high-fidelity", "high", "highfidelity", "high_fidelity":
		return QualityHighFidelity, nil
	}
	return 0, newError(KindInvalidArgument, "", nil, "unknown quality %q, expected fast, balanced or high-fidelity", s)
}

// LineGeometry holds the extra line-layout thresholds of the high-fidelity tier.
type LineGeometry struct {
	// LineOverlapThreshold is the vertical overlap ratio above which two text
	// rects belong to the same line.
	LineOverlapThreshold float64
	// LineBreakWidthThreshold keeps a soft break after a line narrower than
	// this fraction of the text block width.
	LineBreakWidthThreshold float64
	// LineBreakFreeSpaceRatio keeps a soft break after a line that leaves more
	// than this fraction of the text block free on its right.
	LineBreakFreeSpaceRatio float64
	// LineBreakMode enables soft breaks inside paragraphs. Without it lines
	// of a paragraph are joined with spaces.
	LineBreakMode bool
}

// QualityProfile is the set of structural conversion flags of one tier.
type QualityProfile struct {
	Tier               Quality
	Parallel           bool
	ParagraphDetection bool
	ConnectedBorder    bool
	// Geometry is nil unless the tier tunes line geometry.
	Geometry *LineGeometry
}

var qualityProfiles = [...]QualityProfile{
	QualityFast: {
		Tier: QualityFast,
	},
	QualityBalanced: {
		Tier:               QualityBalanced,
		Parallel:           true,
		ParagraphDetection: true,
		ConnectedBorder:    true,
	},
	QualityHighFidelity: {
		Tier:               QualityHighFidelity,
		Parallel:           true,
		ParagraphDetection: true,
		ConnectedBorder:    true,
		Geometry: &LineGeometry{
			LineOverlapThreshold:    0.9,
			LineBreakWidthThreshold: 1.0,
			LineBreakFreeSpaceRatio: 0.1,
			LineBreakMode:           true,
		},
	},
}

// ResolveQuality returns the profile of q. The returned value is a copy; the
// table itself is never modified.
func ResolveQuality(q Quality) (QualityProfile, error) {
	if q < 0 || int(q) >= len(qualityProfiles) {
		return QualityProfile{}, newError(KindInvalidArgument, "", nil, "unknown quality tier %d", int(q))
	}
	p := qualityProfiles[q]
	if p.Geometry != nil {
		g := *p.Geometry
		p.Geometry = &g
	}
	return p, nil
}
