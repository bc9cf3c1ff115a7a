package scoring

import (
	"github.com/rgehrsitz/finhealth/internal/domain"
)

// unknownAgeBand is used when the record carries no age
const unknownAgeBand = "30-39"

// peerComparison places the total score within the age band's static
// benchmark. Percentile is 90 above the top quartile, 70 above the band
// average, 50 above 80% of the average and 25 otherwise.
func (s *Scorer) peerComparison(record domain.RawInputRecord, total int) *domain.PeerComparison {
	band, ok := s.peerBand(record)
	if !ok {
		return nil
	}

	percentile := 25
	switch {
	case total > band.TopQuartile:
		percentile = 90
	case total > band.AverageScore:
		percentile = 70
	case total*10 > band.AverageScore*8:
		percentile = 50
	}

	return &domain.PeerComparison{
		AgeGroup:    band.Label,
		YourScore:   total,
		PeerAverage: band.AverageScore,
		TopQuartile: band.TopQuartile,
		Percentile:  percentile,
	}
}

func (s *Scorer) peerBand(record domain.RawInputRecord) (domain.PeerBand, bool) {
	bands := s.rules.PeerBands
	if len(bands) == 0 {
		return domain.PeerBand{}, false
	}

	age, ok := s.age(record)
	if !ok {
		for _, b := range bands {
			if b.Label == unknownAgeBand {
				return b, true
			}
		}
		return bands[0], true
	}

	for _, b := range bands {
		if b.Contains(age) {
			return b, true
		}
	}
	if age < bands[0].MinAge {
		return bands[0], true
	}
	return bands[len(bands)-1], true
}
