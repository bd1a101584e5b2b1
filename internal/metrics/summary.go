package metrics

import (
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a whole run for reporting collaborators.
type Summary struct {
	Ticks            int     `json:"ticks"`
	FinalPopulation  int     `json:"final_population"`
	PeakPopulation   int     `json:"peak_population"`
	PeakTick         uint64  `json:"peak_tick"`
	MeanPopulation   float64 `json:"mean_population"`
	StdPopulation    float64 `json:"std_population"`
	MeanWaterQuality float64 `json:"mean_water_quality"`
	MeanTemperature  float64 `json:"mean_temperature"`
	FinalEncysted    int     `json:"final_encysted"`
	FinalStressed    int     `json:"final_stressed"`
}

// Summarize computes run-level statistics over a record sequence.
func Summarize(records []Record) Summary {
	s := Summary{Ticks: len(records)}
	if len(records) == 0 {
		return s
	}

	pop := make([]float64, len(records))
	wq := make([]float64, len(records))
	temp := make([]float64, len(records))
	for i, r := range records {
		p := r.Population()
		pop[i] = float64(p)
		wq[i] = float64(r.WaterQuality)
		temp[i] = float64(r.Temperature)
		if p > s.PeakPopulation {
			s.PeakPopulation = p
			s.PeakTick = r.TickIndex
		}
	}

	last := records[len(records)-1]
	s.FinalPopulation = last.Population()
	s.FinalEncysted = last.Encysted
	s.FinalStressed = last.Stressed

	s.MeanPopulation = stat.Mean(pop, nil)
	if len(pop) > 1 {
		s.StdPopulation = stat.StdDev(pop, nil)
	}
	s.MeanWaterQuality = stat.Mean(wq, nil)
	s.MeanTemperature = stat.Mean(temp, nil)
	return s
}
