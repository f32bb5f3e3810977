package indicators

import "FinSignal/internal/domain/models"

const (
	volumePeriod = 20
	volumeHigh   = 1.5
	volumeLow    = 0.5
)

// VolumeScore compares the latest volume with its 20-bar mean.
func VolumeScore(s models.Series) float64 {
	if len(s) < volumePeriod {
		return 0
	}
	vols := s.Volumes()
	avg := mean(vols[len(vols)-volumePeriod:])
	if avg <= 0 {
		return 0
	}
	ratio := vols[len(vols)-1] / avg
	switch {
	case ratio > volumeHigh:
		return 1
	case ratio < volumeLow:
		return -1
	default:
		return 0
	}
}
