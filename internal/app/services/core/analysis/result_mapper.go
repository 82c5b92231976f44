package analysis

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/exceptions"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tidwall/gjson"
)

const (
	inferenceStatisticsPath = "statistics.Main results"
	inferenceFramesPath     = "frames"
	inferenceErrorPath      = "error"
	inferenceCodePath       = "code"
	inferenceSuccessCode    = 200
	mockFrameCount          = 1000
)

type fieldSetter func(result *models.AnalysisResult, value gjson.Result) error

type labelMapping struct {
	label string
	set   fieldSetter
}

// inferenceLabels maps the labels of the model's main results onto recording
// fields. Every label must be present in a successful response.
var inferenceLabels = []labelMapping{
	{"% of bowel sounds followed by another bowel sound within 100 ms", setFloat(func(r *models.AnalysisResult) **float64 { return &r.RepetitionWithin100ms })},
	{"% of bowel sounds followed by another bowel sound within 200 ms", setFloat(func(r *models.AnalysisResult) **float64 { return &r.RepetitionWithin200ms })},
	{"% of bowel sounds followed by another bowel sound within 50 ms", setFloat(func(r *models.AnalysisResult) **float64 { return &r.RepetitionWithin50ms })},
	{"Bowel sounds identified, total count", setCount},
	{"Bowel sounds per minute, 1st decile", setFloat(func(r *models.AnalysisResult) **float64 { return &r.FirstDecilePerMinute })},
	{"Bowel sounds per minute, 1st quartile", setFloat(func(r *models.AnalysisResult) **float64 { return &r.FirstQuartilePerMinute })},
	{"Bowel sounds per minute, 3rd quartile", setFloat(func(r *models.AnalysisResult) **float64 { return &r.ThirdQuartilePerMinute })},
	{"Bowel sounds per minute, 9th decile", setFloat(func(r *models.AnalysisResult) **float64 { return &r.NinthDecilePerMinute })},
	{"Bowel sounds per minute, mean", setFloat(func(r *models.AnalysisResult) **float64 { return &r.MeanPerMinute })},
	{"Bowel sounds per minute, median", setFloat(func(r *models.AnalysisResult) **float64 { return &r.MedianPerMinute })},
	{"Bowel sounds per minute, minimum", setFloat(func(r *models.AnalysisResult) **float64 { return &r.MinimumPerMinute })},
	{"Bowel sounds per minute, standard deviation", setFloat(func(r *models.AnalysisResult) **float64 { return &r.DeviationPerMinute })},
	{"Bowel sounds per minute, total", setFloat(func(r *models.AnalysisResult) **float64 { return &r.TotalSoundIndex })},
	{"Recording length, hours:minutes:seconds", setLength},
}

func setFloat(field func(*models.AnalysisResult) **float64) fieldSetter {
	return func(result *models.AnalysisResult, value gjson.Result) error {
		if value.Type != gjson.Number {
			return fmt.Errorf("expected a number, got %s", value.Type)
		}
		v := value.Float()
		*field(result) = &v
		return nil
	}
}

func setCount(result *models.AnalysisResult, value gjson.Result) error {
	if value.Type != gjson.Number {
		return fmt.Errorf("expected a number, got %s", value.Type)
	}
	v := value.Int()
	result.BowellSoundsNumber = &v
	return nil
}

func setLength(result *models.AnalysisResult, value gjson.Result) error {
	var length models.ClockDuration
	switch value.Type {
	case gjson.String:
		parsed, err := models.ParseClockDuration(value.String())
		if err != nil {
			return err
		}
		length = parsed
	case gjson.Number:
		length = models.ClockDuration(time.Duration(value.Float() * float64(time.Second)))
	default:
		return fmt.Errorf("expected a duration, got %s", value.Type)
	}
	result.Length = &length
	return nil
}

// ParseInferenceResponse validates a model response body and maps it to an
// analysis result.
func ParseInferenceResponse(body []byte) (*models.AnalysisResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, exceptions.ErrInferenceMalformedResponse(nil)
	}

	if message := gjson.GetBytes(body, inferenceErrorPath).String(); message != "" {
		return nil, exceptions.ErrInferenceReportedError(nil, message)
	}
	if code := gjson.GetBytes(body, inferenceCodePath); code.Exists() && code.Int() != inferenceSuccessCode {
		return nil, exceptions.ErrInferenceReportedError(nil, fmt.Sprintf("code %d", code.Int()))
	}

	statistics := gjson.GetBytes(body, inferenceStatisticsPath)
	if !statistics.IsObject() {
		return nil, exceptions.ErrInferenceMalformedResponse(nil)
	}
	values := statistics.Map()

	result := &models.AnalysisResult{}
	for _, mapping := range inferenceLabels {
		value, ok := values[mapping.label]
		if !ok {
			return nil, exceptions.ErrInferenceMissingResult(nil, mapping.label)
		}
		if err := mapping.set(result, value); err != nil {
			return nil, exceptions.ErrInferenceMalformedResponse(err)
		}
	}

	frames := gjson.GetBytes(body, inferenceFramesPath)
	if !frames.IsArray() {
		return nil, exceptions.ErrInferenceMalformedResponse(nil)
	}
	result.ProbabilityPlot = make([]models.Frame, 0, len(frames.Array()))
	frames.ForEach(func(_, frame gjson.Result) bool {
		result.ProbabilityPlot = append(result.ProbabilityPlot, models.Frame{
			Start:       frame.Get("start").Float(),
			Probability: frame.Get("probability").Float(),
		})
		return true
	})
	return result, nil
}

// MockAnalysisResult returns the fixed statistics of the mock model together
// with a random probability plot.
func MockAnalysisResult() *models.AnalysisResult {
	f := func(v float64) *float64 { return &v }
	soundsNumber := int64(0)

	result := &models.AnalysisResult{
		BowellSoundsNumber:             &soundsNumber,
		BowellSoundsPerMinute:          f(2),
		MeanPerMinute:                  f(3),
		DeviationPerMinute:             f(4),
		MedianPerMinute:                f(5),
		FirstQuartilePerMinute:         f(6),
		ThirdQuartilePerMinute:         f(7),
		FirstDecilePerMinute:           f(8),
		NinthDecilePerMinute:           f(9),
		MinimumPerMinute:               f(10),
		MaximumPerMinute:               f(11),
		RepetitionWithin50ms:           f(12),
		RepetitionWithin100ms:          f(13),
		RepetitionWithin200ms:          f(14),
		Containing30sPeriodsPercentage: f(2),
		Mean:                           f(2),
		Deviation:                      f(2),
		Median:                         f(2),
		FirstQuartile:                  f(2),
		ThirdQuartile:                  f(2),
		FirstDecile:                    f(2),
		NinthDecile:                    f(2),
		Minimum:                        f(2),
		Maximum:                        f(2),
		Rmssd:                          f(2),
		RmssdLogarithm:                 f(2),
		Sdnn:                           f(2),
		PortaIndex:                     f(2),
		GuzikIndex:                     f(2),
		HighFrequencyPower:             f(2),
		MediumFrequencyPower:           f(2),
		LowFrequencyPower:              f(2),
		TotalSoundIndex:                f(2),
		TotalSoundDuration:             f(2),
		TotalSoundIndexPer3Minutes:     f(2),
		TotalSoundDurationPer3Minutes:  f(2),
		SimilarityToTrainingSet:        f(2),
	}

	result.ProbabilityPlot = make([]models.Frame, mockFrameCount)
	for i := range result.ProbabilityPlot {
		result.ProbabilityPlot[i] = models.Frame{
			Start:       math.Round(float64(i)/float64(mockFrameCount)*100) / 100,
			Probability: rand.Float64(),
		}
	}
	return result
}
