package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type Recording struct {
	ID                 int64      `json:"id"`
	UploaderID         *int64     `json:"uploader"`
	File               string     `json:"-"`
	Name               string     `json:"-"`
	UploadedAt         time.Time  `json:"uploaded_at"`
	LatestAnalysisDate *time.Time `json:"latest_analysis_date"`
	AnalysisResult
}

// RecordingReference is the short representation embedded in examinations.
type RecordingReference struct {
	ID   int64  `json:"id"`
	File string `json:"file"`
	Name string `json:"name"`
}

type Frame struct {
	Start       float64 `json:"start"`
	Probability float64 `json:"probability"`
}

// AnalysisResult holds every value produced by an analysis of a recording.
type AnalysisResult struct {
	// main results
	Length                *ClockDuration `json:"length"`
	BowellSoundsNumber    *int64         `json:"bowell_sounds_number"`
	BowellSoundsPerMinute *float64       `json:"bowell_sounds_per_minute"`

	// frequency analysis in three-minute periods
	MeanPerMinute                  *float64 `json:"mean_per_minute"`
	DeviationPerMinute             *float64 `json:"deviation_per_minute"`
	MedianPerMinute                *float64 `json:"median_per_minute"`
	FirstQuartilePerMinute         *float64 `json:"first_quartile_per_minute"`
	ThirdQuartilePerMinute         *float64 `json:"third_quartile_per_minute"`
	FirstDecilePerMinute           *float64 `json:"first_decile_per_minute"`
	NinthDecilePerMinute           *float64 `json:"ninth_decile_per_minute"`
	MinimumPerMinute               *float64 `json:"minimum_per_minute"`
	MaximumPerMinute               *float64 `json:"maximum_per_minute"`
	RepetitionWithin50ms           *float64 `json:"repetition_within_50ms"`
	RepetitionWithin100ms          *float64 `json:"repetition_within_100ms"`
	RepetitionWithin200ms          *float64 `json:"repetition_within_200ms"`
	Containing30sPeriodsPercentage *float64 `json:"containing_30s_periods_percentage"`

	// duration analysis of individual bowel sounds
	Mean                 *float64 `json:"mean"`
	Deviation            *float64 `json:"deviation"`
	Median               *float64 `json:"median"`
	FirstQuartile        *float64 `json:"first_quartile"`
	ThirdQuartile        *float64 `json:"third_quartile"`
	FirstDecile          *float64 `json:"first_decile"`
	NinthDecile          *float64 `json:"ninth_decile"`
	Minimum              *float64 `json:"minimum"`
	Maximum              *float64 `json:"maximum"`
	Rmssd                *float64 `json:"rmssd"`
	RmssdLogarithm       *float64 `json:"rmssd_logarithm"`
	Sdnn                 *float64 `json:"sdnn"`
	PortaIndex           *float64 `json:"porta_index"`
	GuzikIndex           *float64 `json:"guzik_index"`
	HighFrequencyPower   *float64 `json:"high_frequency_power"`
	MediumFrequencyPower *float64 `json:"medium_frequency_power"`
	LowFrequencyPower    *float64 `json:"low_frequency_power"`

	// sound analysis
	TotalSoundIndex               *float64 `json:"total_sound_index"`
	TotalSoundDuration            *float64 `json:"total_sound_duration"`
	TotalSoundIndexPer3Minutes    *float64 `json:"total_sound_index_per_3minutes"`
	TotalSoundDurationPer3Minutes *float64 `json:"total_sound_duration_per_3minutes"`

	SimilarityToTrainingSet *float64 `json:"similarity_to_training_set"`

	ProbabilityPlot []Frame `json:"probability_plot"`
}

// ClockDuration is a duration exchanged as "HH:MM:SS[.ffffff]".
type ClockDuration time.Duration

func (d ClockDuration) Duration() time.Duration {
	return time.Duration(d)
}

func (d ClockDuration) String() string {
	total := time.Duration(d)
	hours := total / time.Hour
	total -= hours * time.Hour
	minutes := total / time.Minute
	total -= minutes * time.Minute
	seconds := total / time.Second
	micros := (total - seconds*time.Second) / time.Microsecond

	out := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if micros > 0 {
		out += fmt.Sprintf(".%06d", micros)
	}
	return out
}

func (d ClockDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *ClockDuration) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err == nil {
		*d = ClockDuration(time.Duration(seconds * float64(time.Second)))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClockDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseClockDuration accepts "SS", "MM:SS" or "HH:MM:SS", each optionally
// with fractional seconds.
func ParseClockDuration(value string) (ClockDuration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty duration")
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	var total float64
	for _, part := range parts {
		number, err := strconv.ParseFloat(part, 64)
		if err != nil || number < 0 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		total = total*60 + number
	}
	return ClockDuration(time.Duration(total * float64(time.Second))), nil
}
