package curve

// Duration is one bucket of the analysis ladder.
type Duration struct {
	Seconds int
	Label   string
}

// Ladder is the fixed set of analysis windows, from a 5-second sprint up to
// a 6-hour endurance effort. Every component of the curve engine iterates
// this set in order.
var Ladder = []Duration{
	{5, "5s"},
	{10, "10s"},
	{30, "30s"},
	{60, "1m"},
	{120, "2m"},
	{300, "5m"},
	{600, "10m"},
	{1200, "20m"},
	{1800, "30m"},
	{3600, "1h"},
	{7200, "2h"},
	{10800, "3h"},
	{14400, "4h"},
	{18000, "5h"},
	{21600, "6h"},
}

// LabelFor returns the display label for a ladder duration, or "" if the
// duration is not on the ladder.
func LabelFor(seconds int) string {
	for _, d := range Ladder {
		if d.Seconds == seconds {
			return d.Label
		}
	}
	return ""
}

// SecondsFor resolves a display label back to its duration in seconds.
func SecondsFor(label string) (int, bool) {
	for _, d := range Ladder {
		if d.Label == label {
			return d.Seconds, true
		}
	}
	return 0, false
}
