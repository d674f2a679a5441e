// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mockdata generates synthetic daily advertising metrics.
//
// Series follow a ramp-up curve (first three days deliver below steady
// state), weekday seasonality (weekends lower), Gaussian noise, and a
// normalization pass so cumulative clicks land on the configured target
// within a 3% tolerance. Output is a pure function of (config, seed).
package mockdata

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidDateRange = errors.New("start date after end date")
	ErrNegativeTarget   = errors.New("target total must not be negative")
	ErrInvalidCTR       = errors.New("average CTR must be in (0, 1]")
	ErrInvalidCPC       = errors.New("average CPC must be positive")
	ErrInvalidConvRate  = errors.New("conversion rate must not be negative")
)

// defaultConversionRate applies when Config.ConversionRate is zero.
const defaultConversionRate = 0.025

// Config parameterizes one generated series. StartDate and EndDate are
// inclusive calendar dates; only their year/month/day components matter.
type Config struct {
	StartDate      time.Time
	EndDate        time.Time
	TargetTotal    int
	AvgCTR         float64
	AvgCPC         float64
	ConversionRate float64
}

// Validate rejects configurations that would produce garbage output.
func (c Config) Validate() error {
	start, end := civil(c.StartDate), civil(c.EndDate)
	if start.After(end) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if c.TargetTotal < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeTarget, c.TargetTotal)
	}
	if c.AvgCTR <= 0 || c.AvgCTR > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidCTR, c.AvgCTR)
	}
	if c.AvgCPC <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidCPC, c.AvgCPC)
	}
	if c.ConversionRate < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidConvRate, c.ConversionRate)
	}
	return nil
}

// DayPoint is one generated calendar day of channel metrics.
type DayPoint struct {
	Date           time.Time `json:"date"`
	Impressions    int       `json:"impressions"`
	Clicks         int       `json:"clicks"`
	Visits         int       `json:"visits"`
	Conversions    int       `json:"conversions"`
	Cost           int       `json:"cost"`
	CTR            float64   `json:"ctr"`
	CPC            float64   `json:"cpc"`
	ConversionRate float64   `json:"conversionRate"`
}

// rampMultiplier models the ad platform's learning phase: new campaigns
// deliver below steady state for the first three days.
func rampMultiplier(dayIndex int) float64 {
	switch dayIndex {
	case 0:
		return 0.4
	case 1:
		return 0.7
	case 2:
		return 0.9
	default:
		return 1.0
	}
}

// weekdayMultiplier models lower weekend traffic for this vertical.
func weekdayMultiplier(day time.Weekday) float64 {
	switch day {
	case time.Saturday, time.Sunday:
		return 0.75
	case time.Friday:
		return 0.9
	default:
		return 1.0
	}
}

// Generate produces one DayPoint per calendar day in [StartDate, EndDate],
// in ascending order. Identical (cfg, seed) always yields identical output.
func Generate(cfg Config, seed int64) ([]DayPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	days := daysBetween(cfg.StartDate, cfg.EndDate)
	if len(days) == 0 {
		return []DayPoint{}, nil
	}

	// Zero target means a campaign with nothing to deliver; the
	// proportional distribution below would divide it away to ones.
	if cfg.TargetTotal == 0 {
		points := make([]DayPoint, len(days))
		for i, day := range days {
			points[i] = DayPoint{Date: day}
		}
		return points, nil
	}

	convRate := cfg.ConversionRate
	if convRate == 0 {
		convRate = defaultConversionRate
	}

	src := NewSource(seed)

	// Distribute the target across days proportionally to ramp x weekday.
	weights := make([]float64, len(days))
	totalWeight := 0.0
	for i, day := range days {
		weights[i] = rampMultiplier(i) * weekdayMultiplier(day.Weekday())
		totalWeight += weights[i]
	}

	points := make([]DayPoint, len(days))
	for i, day := range days {
		ideal := weights[i] / totalWeight * float64(cfg.TargetTotal)

		noise := src.Gaussian(1.0, 0.12)
		clicks := int(math.Round(ideal * math.Max(0.5, noise)))
		if clicks < 1 {
			clicks = 1
		}

		ctr := clamp(cfg.AvgCTR*src.Gaussian(1.0, 0.08), 0.005, 0.15)
		impressions := int(math.Round(float64(clicks) / ctr))

		cpc := math.Max(100, cfg.AvgCPC*src.Gaussian(1.0, 0.10))
		cost := int(math.Round(float64(clicks) * cpc))

		dayConvRate := math.Max(0.005, convRate*src.Gaussian(1.0, 0.15))
		conversions := int(math.Round(float64(clicks) * dayConvRate))
		if conversions < 0 {
			conversions = 0
		}

		// Visits trail clicks slightly due to tracking loss.
		visits := int(math.Round(float64(clicks) * src.Gaussian(0.92, 0.03)))
		if visits < 0 {
			visits = 0
		}

		points[i] = DayPoint{
			Date:           day,
			Impressions:    impressions,
			Clicks:         clicks,
			Visits:         visits,
			Conversions:    conversions,
			Cost:           cost,
			CTR:            round4(ctr),
			CPC:            math.Round(cpc),
			ConversionRate: round4(dayConvRate),
		}
	}

	normalize(points, cfg.TargetTotal)

	return points, nil
}

// normalize rescales per-day click volume when cumulative noise drift
// pushed the series total more than 3% off target. Each day's already
// chosen rates (ctr, cpc, conversion rate) are preserved; only volume
// moves, so campaign-level totals always approximate configured targets.
func normalize(points []DayPoint, targetTotal int) {
	actualTotal := 0
	for _, p := range points {
		actualTotal += p.Clicks
	}
	if actualTotal == 0 {
		return
	}

	factor := float64(targetTotal) / float64(actualTotal)
	if math.Abs(factor-1) <= 0.03 {
		return
	}

	for i := range points {
		p := &points[i]
		clicks := int(math.Round(float64(p.Clicks) * factor))
		if clicks < 1 {
			clicks = 1
		}
		p.Clicks = clicks
		p.Impressions = int(math.Round(float64(clicks) / p.CTR))
		p.Cost = int(math.Round(float64(clicks) * p.CPC))
		p.Visits = int(math.Round(float64(clicks) * 0.92))
		p.Conversions = int(math.Round(float64(clicks) * p.ConversionRate))
		if p.Conversions < 0 {
			p.Conversions = 0
		}
	}
}

// GenerateUpToToday generates the full series then truncates it at the
// current date, simulating an in-flight campaign whose future days have
// not happened yet. Empty if the campaign starts in the future.
func GenerateUpToToday(cfg Config, seed int64) ([]DayPoint, error) {
	return GenerateAsOf(cfg, seed, time.Now().UTC())
}

// GenerateAsOf is GenerateUpToToday with an explicit "today".
func GenerateAsOf(cfg Config, seed int64, today time.Time) ([]DayPoint, error) {
	points, err := Generate(cfg, seed)
	if err != nil {
		return nil, err
	}
	cutoff := civil(today)
	n := 0
	for _, p := range points {
		if p.Date.After(cutoff) {
			break
		}
		n++
	}
	return points[:n], nil
}

// daysBetween enumerates calendar days in [start, end] inclusive.
func daysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for d, last := civil(start), civil(end); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// civil truncates a timestamp to its UTC calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
