package queries

import (
	"fmt"
	"strings"
)

// RecordingStatisticColumns lists the numeric analysis columns in the order
// used by every recording query below.
var RecordingStatisticColumns = []string{
	"bowell_sounds_number",
	"bowell_sounds_per_minute",
	"mean_per_minute",
	"deviation_per_minute",
	"median_per_minute",
	"first_quartile_per_minute",
	"third_quartile_per_minute",
	"first_decile_per_minute",
	"ninth_decile_per_minute",
	"minimum_per_minute",
	"maximum_per_minute",
	"repetition_within_50ms",
	"repetition_within_100ms",
	"repetition_within_200ms",
	"containing_30s_periods_percentage",
	"mean",
	"deviation",
	"median",
	"first_quartile",
	"third_quartile",
	"first_decile",
	"ninth_decile",
	"minimum",
	"maximum",
	"rmssd",
	"rmssd_logarithm",
	"sdnn",
	"porta_index",
	"guzik_index",
	"high_frequency_power",
	"medium_frequency_power",
	"low_frequency_power",
	"total_sound_index",
	"total_sound_duration",
	"total_sound_index_per_3minutes",
	"total_sound_duration_per_3minutes",
	"similarity_to_training_set",
}

const (
	CreateRecordingQuery = `
	INSERT INTO recordings (uploader_id, file, name)
	VALUES ($1, $2, $3)
	RETURNING id, uploaded_at`

	DeleteRecordingByIDQuery = `DELETE FROM recordings WHERE id = $1`
)

var (
	recordingSelect = `SELECT id, uploader_id, file, name, uploaded_at, latest_analysis_date,
	EXTRACT(EPOCH FROM length)::float8, probability_plot, ` + strings.Join(RecordingStatisticColumns, ", ") + `
	FROM recordings`

	FindRecordingByIDQuery = recordingSelect + ` WHERE id = $1`

	FindRecordingsByUploaderIDQuery = recordingSelect + ` WHERE uploader_id = $1 ORDER BY uploaded_at DESC, id DESC`

	// UpdateRecordingAnalysisQuery leaves a column untouched when its argument is NULL.
	UpdateRecordingAnalysisQuery = buildUpdateRecordingAnalysisQuery()
)

func buildUpdateRecordingAnalysisQuery() string {
	assignments := make([]string, 0, len(RecordingStatisticColumns)+3)
	for i, column := range RecordingStatisticColumns {
		assignments = append(assignments, fmt.Sprintf("%s = COALESCE($%d, %s)", column, i+1, column))
	}

	next := len(RecordingStatisticColumns) + 1
	assignments = append(assignments,
		fmt.Sprintf("length = COALESCE($%d::float8 * INTERVAL '1 second', length)", next),
		fmt.Sprintf("probability_plot = COALESCE($%d::jsonb, probability_plot)", next+1),
		fmt.Sprintf("latest_analysis_date = COALESCE($%d, latest_analysis_date)", next+2),
	)

	return fmt.Sprintf("UPDATE recordings SET %s WHERE id = $%d",
		strings.Join(assignments, ", "), next+3)
}
