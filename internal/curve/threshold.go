package curve

// Thresholds are the derived training intensities: functional threshold
// power plus the first and second ventilatory thresholds, each with a
// paired heart rate. Heart-rate fields are 0 when no heart-rate data was
// available for the source efforts.
type Thresholds struct {
	FTP          int
	FTPHeartrate int
	VT1Power     int
	VT1Heartrate int
	VT2Power     int
	VT2Heartrate int
}

// Reference durations used by the estimator.
const (
	fiveMinutes   = 300
	twentyMinutes = 1200
	oneHour       = 3600
)

// EstimateThresholds derives FTP, VT1 and VT2 from a 12-week snapshot.
//
// FTP is blended from the 5-minute best (x0.75) and the 20-minute best
// (x0.95), weighted 15/85 when both exist. With only one candidate that
// candidate is used as-is; with neither, the raw 1-hour best stands in.
// Every multiplication truncates to an integer. Returns false when no
// 5-minute, 20-minute or 1-hour power exists.
func EstimateThresholds(s *Snapshot) (Thresholds, bool) {
	p5, _ := s.Effort(fiveMinutes)
	p20, _ := s.Effort(twentyMinutes)
	p60, _ := s.Effort(oneHour)

	var ftp5, ftp20 int
	if p5.Watts > 0 {
		ftp5 = int(0.75 * float64(p5.Watts))
	}
	if p20.Watts > 0 {
		ftp20 = int(0.95 * float64(p20.Watts))
	}

	var ftp int
	switch {
	case ftp5 > 0 && ftp20 > 0:
		ftp = int(0.15*float64(ftp5)) + int(0.85*float64(ftp20))
	case ftp5 > 0:
		ftp = ftp5
	case ftp20 > 0:
		ftp = ftp20
	case p60.Watts > 0:
		ftp = p60.Watts
	default:
		return Thresholds{}, false
	}

	// FTP heart rate: unweighted mean over whichever paired heart rates
	// are present.
	var hrSum, hrCount int
	if p5.Heartrate > 0 {
		hrSum += int(0.92 * float64(p5.Heartrate))
		hrCount++
	}
	if p20.Heartrate > 0 {
		hrSum += int(0.98 * float64(p20.Heartrate))
		hrCount++
	}
	var ftpHR int
	if hrCount > 0 {
		ftpHR = hrSum / hrCount
	}

	return Thresholds{
		FTP:          ftp,
		FTPHeartrate: ftpHR,
		VT1Power:     int(0.75 * float64(ftp)),
		VT1Heartrate: int(0.85 * float64(ftpHR)),
		VT2Power:     int(0.88 * float64(ftp)),
		VT2Heartrate: int(0.95 * float64(ftpHR)),
	}, true
}
