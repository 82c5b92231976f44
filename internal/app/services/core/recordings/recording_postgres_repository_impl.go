package recordings

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/queries"
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type recordingPostgresRepository struct {
	DB  *sql.DB
	Log *zap.Logger
}

var (
	recordingPostgresRepositoryInstance contracts.RecordingRepository
	onceRecordingPostgresRepository     sync.Once
)

func NewRecordingPostgresRepository(db *sql.DB, logger *zap.Logger) contracts.RecordingRepository {
	onceRecordingPostgresRepository.Do(func() {
		recordingPostgresRepositoryInstance = &recordingPostgresRepository{
			DB:  db,
			Log: logger,
		}
	})
	return recordingPostgresRepositoryInstance
}

func (r *recordingPostgresRepository) CreateRecording(ctx context.Context, recording *models.Recording) (int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("recordingPostgresRepository.CreateRecording called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	err := r.DB.QueryRowContext(ctx, queries.CreateRecordingQuery,
		recording.UploaderID, recording.File, recording.Name,
	).Scan(&recording.ID, &recording.UploadedAt)
	if err != nil {
		r.Log.Error("recordingPostgresRepository.CreateRecording error inserting recording",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrPostgresDBInsertData(err)
	}

	r.Log.Info("recordingPostgresRepository.CreateRecording succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recording.ID),
	)
	return recording.ID, nil
}

func (r *recordingPostgresRepository) FindByID(ctx context.Context, recordingID int64) (*models.Recording, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("recordingPostgresRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	recording, err := scanRecording(r.DB.QueryRowContext(ctx, queries.FindRecordingByIDQuery, recordingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.Log.Error("recordingPostgresRepository.FindByID error scanning row",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return recording, nil
}

func (r *recordingPostgresRepository) FindByUploaderID(ctx context.Context, uploaderID int64) ([]models.Recording, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("recordingPostgresRepository.FindByUploaderID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, uploaderID),
	)

	rows, err := r.DB.QueryContext(ctx, queries.FindRecordingsByUploaderIDQuery, uploaderID)
	if err != nil {
		r.Log.Error("recordingPostgresRepository.FindByUploaderID error querying recordings",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	recordings := make([]models.Recording, 0)
	for rows.Next() {
		recording, err := scanRecording(rows)
		if err != nil {
			r.Log.Error("recordingPostgresRepository.FindByUploaderID error scanning row",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		recordings = append(recordings, *recording)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}

	r.Log.Info("recordingPostgresRepository.FindByUploaderID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(recordings)),
	)
	return recordings, nil
}

func (r *recordingPostgresRepository) UpdateAnalysisResult(ctx context.Context, recordingID int64, result *models.AnalysisResult, analysedAt *time.Time) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("recordingPostgresRepository.UpdateAnalysisResult called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	var lengthSeconds sql.NullFloat64
	if result.Length != nil {
		lengthSeconds = sql.NullFloat64{Float64: result.Length.Duration().Seconds(), Valid: true}
	}

	var plot []byte
	if result.ProbabilityPlot != nil {
		encoded, err := json.Marshal(result.ProbabilityPlot)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		plot = encoded
	}

	// The nullable statistic pointers are passed as is: the driver stores a
	// nil pointer as NULL, which the query keeps as "unchanged".
	args := statisticFields(result)
	args = append(args, lengthSeconds, nullableJSON(plot), analysedAt, recordingID)

	if _, err := r.DB.ExecContext(ctx, queries.UpdateRecordingAnalysisQuery, args...); err != nil {
		r.Log.Error("recordingPostgresRepository.UpdateAnalysisResult error updating recording",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBUpdateData(err)
	}

	r.Log.Info("recordingPostgresRepository.UpdateAnalysisResult succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)
	return nil
}

func (r *recordingPostgresRepository) DeleteByID(ctx context.Context, recordingID int64) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("recordingPostgresRepository.DeleteByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	if _, err := r.DB.ExecContext(ctx, queries.DeleteRecordingByIDQuery, recordingID); err != nil {
		r.Log.Error("recordingPostgresRepository.DeleteByID error deleting recording",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBDeleteData(err)
	}
	return nil
}

func nullableJSON(data []byte) interface{} {
	if data == nil {
		return nil
	}
	return string(data)
}

// statisticFields returns pointers to the result fields in the order of
// queries.RecordingStatisticColumns.
func statisticFields(r *models.AnalysisResult) []interface{} {
	return []interface{}{
		&r.BowellSoundsNumber,
		&r.BowellSoundsPerMinute,
		&r.MeanPerMinute,
		&r.DeviationPerMinute,
		&r.MedianPerMinute,
		&r.FirstQuartilePerMinute,
		&r.ThirdQuartilePerMinute,
		&r.FirstDecilePerMinute,
		&r.NinthDecilePerMinute,
		&r.MinimumPerMinute,
		&r.MaximumPerMinute,
		&r.RepetitionWithin50ms,
		&r.RepetitionWithin100ms,
		&r.RepetitionWithin200ms,
		&r.Containing30sPeriodsPercentage,
		&r.Mean,
		&r.Deviation,
		&r.Median,
		&r.FirstQuartile,
		&r.ThirdQuartile,
		&r.FirstDecile,
		&r.NinthDecile,
		&r.Minimum,
		&r.Maximum,
		&r.Rmssd,
		&r.RmssdLogarithm,
		&r.Sdnn,
		&r.PortaIndex,
		&r.GuzikIndex,
		&r.HighFrequencyPower,
		&r.MediumFrequencyPower,
		&r.LowFrequencyPower,
		&r.TotalSoundIndex,
		&r.TotalSoundDuration,
		&r.TotalSoundIndexPer3Minutes,
		&r.TotalSoundDurationPer3Minutes,
		&r.SimilarityToTrainingSet,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecording(row rowScanner) (*models.Recording, error) {
	var recording models.Recording
	var lengthSeconds sql.NullFloat64
	var plot []byte

	dest := []interface{}{
		&recording.ID, &recording.UploaderID, &recording.File, &recording.Name,
		&recording.UploadedAt, &recording.LatestAnalysisDate, &lengthSeconds, &plot,
	}
	dest = append(dest, statisticFields(&recording.AnalysisResult)...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if lengthSeconds.Valid {
		length := models.ClockDuration(time.Duration(lengthSeconds.Float64 * float64(time.Second)))
		recording.Length = &length
	}
	if len(plot) > 0 {
		if err := json.Unmarshal(plot, &recording.ProbabilityPlot); err != nil {
			return nil, err
		}
	}
	return &recording, nil
}
