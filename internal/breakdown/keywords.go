package breakdown

// Keyword tables for category extraction. Matching is case-insensitive
// substring search over the scene heading plus description; every matching
// keyword is appended to its category list. Overlapping keywords (e.g. "car"
// and "car keys") each produce an entry, matching the import format slate
// consumes.
var (
	propKeywords = []string{
		"gun", "weapon", "knife", "phone", "laptop", "camera",
		"briefcase", "documents", "car keys", "money", "badge", "map",
	}

	equipmentKeywords = []string{
		"crane", "steadicam", "drone", "dolly", "green screen",
		"underwater", "rig", "jib", "techno",
	}

	effectKeywords = []string{
		"explosion", "fire", "rain", "smoke", "snow", "blood",
		"gunshot", "crash", "spark", "debris",
	}

	stuntKeywords = []string{
		"fight", "chase", "fall", "jump", "crash", "stunt", "tackle",
	}

	vehicleKeywords = []string{
		"car", "truck", "motorcycle", "helicopter", "boat", "van", "train",
	}
)

var timeOfDayMarkers = []string{
	"NIGHT", "DAWN", "DUSK", "MORNING", "EVENING", "SUNSET", "SUNRISE", "DAY",
}

func matchKeywords(text string, keywords []string) []string {
	var matches []string
	for _, keyword := range keywords {
		if containsFold(text, keyword) {
			matches = append(matches, keyword)
		}
	}
	return matches
}
