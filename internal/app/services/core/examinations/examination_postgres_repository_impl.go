package examinations

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

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const uniqueViolationCode pq.ErrorCode = "23505"

type examinationPostgresRepository struct {
	DB  *sql.DB
	Log *zap.Logger
}

var (
	examinationPostgresRepositoryInstance contracts.ExaminationRepository
	onceExaminationPostgresRepository     sync.Once
)

func NewExaminationPostgresRepository(db *sql.DB, logger *zap.Logger) contracts.ExaminationRepository {
	onceExaminationPostgresRepository.Do(func() {
		examinationPostgresRepositoryInstance = &examinationPostgresRepository{
			DB:  db,
			Log: logger,
		}
	})
	return examinationPostgresRepositoryInstance
}

func (r *examinationPostgresRepository) CreateExamination(ctx context.Context, examination *models.Examination) (int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.CreateExamination called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var id int64
	err := r.DB.QueryRowContext(ctx, queries.CreateExaminationQuery,
		examination.PatientID, examination.DoctorID, examination.Date, examination.Overview,
		string(examination.Status), examination.HeightCm, examination.MassKg,
		examination.Symptoms, examination.Medication,
	).Scan(&id)
	if err != nil {
		r.Log.Error("examinationPostgresRepository.CreateExamination error inserting examination",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrPostgresDBInsertData(err)
	}

	r.Log.Info("examinationPostgresRepository.CreateExamination succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, id),
	)
	return id, nil
}

func (r *examinationPostgresRepository) FindByID(ctx context.Context, examinationID int64) (*models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)
	return r.findOne(ctx, queries.FindExaminationByIDQuery, examinationID)
}

func (r *examinationPostgresRepository) FindByRecordingID(ctx context.Context, recordingID int64) (*models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.FindByRecordingID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)
	return r.findOne(ctx, queries.FindExaminationByRecordingIDQuery, recordingID)
}

func (r *examinationPostgresRepository) FindAll(ctx context.Context, scope *models.ExaminationScope) ([]models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var doctorID, patientID sql.NullInt64
	if scope != nil && scope.DoctorID != nil {
		doctorID = sql.NullInt64{Int64: *scope.DoctorID, Valid: true}
	}
	if scope != nil && scope.PatientID != nil {
		patientID = sql.NullInt64{Int64: *scope.PatientID, Valid: true}
	}
	return r.findMany(ctx, "FindAll", queries.FindAllExaminationsQuery, doctorID, patientID)
}

func (r *examinationPostgresRepository) FindStuckInProcessing(ctx context.Context, changedBefore time.Time) ([]models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.FindStuckInProcessing called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Time("changed_before", changedBefore),
	)
	return r.findMany(ctx, "FindStuckInProcessing", queries.FindStuckExaminationsQuery,
		string(models.ExaminationStatusFileProcessing), changedBefore)
}

// UpdateExamination writes the non nil fields of update in one conditional
// statement and reports whether the row matched.
func (r *examinationPostgresRepository) UpdateExamination(ctx context.Context, examinationID int64, update *models.ExaminationUpdate) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.UpdateExamination called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)

	result, err := r.DB.ExecContext(ctx, queries.UpdateExaminationQuery, updateExaminationArgs(examinationID, update)...)
	if err != nil {
		r.Log.Error("examinationPostgresRepository.UpdateExamination error updating examination",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
			zap.Error(err),
		)
		if isUniqueViolation(err) {
			return false, exceptions.ErrRecordingAlreadyAssigned(err)
		}
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	r.Log.Info("examinationPostgresRepository.UpdateExamination succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
		zap.Bool("applied", affected > 0),
	)
	return affected > 0, nil
}

func updateExaminationArgs(examinationID int64, update *models.ExaminationUpdate) []interface{} {
	var status, expectedStatus sql.NullString
	if update.Status != nil {
		status = sql.NullString{String: string(*update.Status), Valid: true}
	}
	if update.ExpectedStatus != nil {
		expectedStatus = sql.NullString{String: string(*update.ExpectedStatus), Valid: true}
	}
	return []interface{}{
		update.PatientID, update.DoctorID, update.RecordingID, update.Date, status,
		update.HeightCm, update.MassKg, update.Symptoms, update.Medication, update.Overview,
		examinationID, expectedStatus,
	}
}

// isUniqueViolation detects a recording attached to two examinations by
// concurrent writers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

// ApplyTransition is a single conditional UPDATE, so a concurrent writer that
// already moved the examination makes it a no-op instead of a lost update.
func (r *examinationPostgresRepository) ApplyTransition(ctx context.Context, transition *models.StatusTransition) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.ApplyTransition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, transition.ExaminationID),
		zap.String(constvars.LoggingToStatusKey, string(transition.To)),
	)

	from := make([]string, 0, len(transition.From))
	for _, status := range transition.From {
		from = append(from, string(status))
	}

	var expectedAnalysisID, setAnalysisID sql.NullString
	if transition.ExpectedAnalysisID != nil {
		expectedAnalysisID = sql.NullString{String: *transition.ExpectedAnalysisID, Valid: true}
	}
	if transition.SetAnalysisID != nil {
		setAnalysisID = sql.NullString{String: *transition.SetAnalysisID, Valid: true}
	}
	var setRecordingID sql.NullInt64
	if transition.SetRecordingID != nil {
		setRecordingID = sql.NullInt64{Int64: *transition.SetRecordingID, Valid: true}
	}

	result, err := r.DB.ExecContext(ctx, queries.ApplyTransitionQuery,
		transition.ExaminationID, string(transition.To), pq.Array(from),
		expectedAnalysisID, setAnalysisID, transition.ClearAnalysisID,
		transition.ClearRecording, setRecordingID,
	)
	if err != nil {
		r.Log.Error("examinationPostgresRepository.ApplyTransition error updating examination",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingExaminationIDKey, transition.ExaminationID),
			zap.Error(err),
		)
		if isUniqueViolation(err) {
			return false, exceptions.ErrRecordingAlreadyAssigned(err)
		}
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	r.Log.Info("examinationPostgresRepository.ApplyTransition succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, transition.ExaminationID),
		zap.Bool("applied", affected > 0),
	)
	return affected > 0, nil
}

func (r *examinationPostgresRepository) GetDoctorStatistics(ctx context.Context, doctorID int64, now time.Time) (*models.ExaminationStatistics, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("examinationPostgresRepository.GetDoctorStatistics called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, doctorID),
	)

	var stats models.ExaminationStatistics
	err := r.DB.QueryRowContext(ctx, queries.DoctorStatisticsQuery, doctorID, now, now.AddDate(0, 0, 7)).Scan(
		&stats.ExaminationCount,
		&stats.PatientsRelatedCount,
		&stats.ExaminationsScheduledCount,
		&stats.ExaminationsNextWeekCount,
	)
	if err != nil {
		r.Log.Error("examinationPostgresRepository.GetDoctorStatistics error scanning row",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &stats, nil
}

func (r *examinationPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	examination, err := scanExamination(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.Log.Error("examinationPostgresRepository.findOne error scanning row",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return examination, nil
}

func (r *examinationPostgresRepository) findMany(ctx context.Context, method, query string, args ...interface{}) ([]models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.Log.Error("examinationPostgresRepository."+method+" error querying examinations",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	examinations := make([]models.Examination, 0)
	for rows.Next() {
		examination, err := scanExamination(rows)
		if err != nil {
			r.Log.Error("examinationPostgresRepository."+method+" error scanning row",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		examinations = append(examinations, *examination)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}

	r.Log.Info("examinationPostgresRepository."+method+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(examinations)),
	)
	return examinations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExamination(row rowScanner) (*models.Examination, error) {
	var e models.Examination
	var status string
	var patientFirst, patientLast, patientEmail sql.NullString
	var doctorFirst, doctorLast, doctorEmail sql.NullString
	var recordingFile, recordingName sql.NullString

	err := row.Scan(
		&e.ID, &e.PatientID, &e.DoctorID, &e.RecordingID, &e.Date, &e.Overview, &status,
		&e.HeightCm, &e.MassKg, &e.Symptoms, &e.Medication, &e.AnalysisID,
		&e.StatusChangedAt, &e.CreatedAt, &e.UpdatedAt,
		&patientFirst, &patientLast, &patientEmail,
		&doctorFirst, &doctorLast, &doctorEmail,
		&recordingFile, &recordingName,
	)
	if err != nil {
		return nil, err
	}

	e.Status = models.ExaminationStatus(status)
	if e.PatientID != nil {
		e.Patient = &models.UserInfo{ID: *e.PatientID, FirstName: patientFirst.String, LastName: patientLast.String, Email: patientEmail.String}
	}
	if e.DoctorID != nil {
		e.Doctor = &models.UserInfo{ID: *e.DoctorID, FirstName: doctorFirst.String, LastName: doctorLast.String, Email: doctorEmail.String}
	}
	if e.RecordingID != nil {
		e.Recording = &models.RecordingReference{ID: *e.RecordingID, File: recordingFile.String, Name: recordingName.String}
	}
	return &e, nil
}
