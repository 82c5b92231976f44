package queries

// examinationSelect joins the patient, doctor and recording shown with every examination.
const examinationSelect = `
	SELECT e.id, e.patient_id, e.doctor_id, e.recording_id, e.date, e.overview, e.status,
		e.height_cm, e.mass_kg, e.symptoms, e.medication, e.analysis_id,
		e.status_changed_at, e.created_at, e.updated_at,
		p.first_name, p.last_name, p.email,
		d.first_name, d.last_name, d.email,
		r.file, r.name
	FROM examinations e
	LEFT JOIN users p ON p.id = e.patient_id
	LEFT JOIN users d ON d.id = e.doctor_id
	LEFT JOIN recordings r ON r.id = e.recording_id`

const (
	CreateExaminationQuery = `
	INSERT INTO examinations (patient_id, doctor_id, date, overview, status, height_cm, mass_kg, symptoms, medication)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id`

	FindExaminationByIDQuery = examinationSelect + ` WHERE e.id = $1`

	FindExaminationByRecordingIDQuery = examinationSelect + ` WHERE e.recording_id = $1`

	FindAllExaminationsQuery = examinationSelect + `
	WHERE ($1::bigint IS NULL OR e.doctor_id = $1)
	AND ($2::bigint IS NULL OR e.patient_id = $2)
	ORDER BY e.date DESC, e.id DESC`

	FindStuckExaminationsQuery = examinationSelect + `
	WHERE e.status = $1 AND e.status_changed_at < $2
	ORDER BY e.status_changed_at`

	// UpdateExaminationQuery keeps a column untouched when its argument is NULL.
	// A non NULL $12 must equal the current status, and a recording is only
	// set on an examination that has none.
	UpdateExaminationQuery = `
	UPDATE examinations SET
		patient_id   = COALESCE($1, patient_id),
		doctor_id    = COALESCE($2, doctor_id),
		recording_id = COALESCE($3, recording_id),
		date         = COALESCE($4, date),
		status_changed_at = CASE WHEN $5::varchar IS NOT NULL AND $5 <> status THEN NOW() ELSE status_changed_at END,
		status       = COALESCE($5, status),
		height_cm    = COALESCE($6, height_cm),
		mass_kg      = COALESCE($7, mass_kg),
		symptoms     = COALESCE($8, symptoms),
		medication   = COALESCE($9, medication),
		overview     = COALESCE($10, overview),
		updated_at   = NOW()
	WHERE id = $11
	AND ($12::varchar IS NULL OR status = $12)
	AND ($3::bigint IS NULL OR recording_id IS NULL)`

	// ApplyTransitionQuery only updates when the current status is one of $3
	// and, when given, analysis_id still equals $4.
	ApplyTransitionQuery = `
	UPDATE examinations SET
		status = $2,
		status_changed_at = NOW(),
		updated_at = NOW(),
		analysis_id = CASE WHEN $6 THEN NULL ELSE COALESCE($5, analysis_id) END,
		recording_id = CASE WHEN $7 THEN NULL ELSE COALESCE($8, recording_id) END
	WHERE id = $1
	AND status = ANY($3)
	AND ($4::varchar IS NULL OR analysis_id = $4)
	AND ($8::bigint IS NULL OR recording_id IS NULL)`

	// DoctorStatisticsQuery counts examinations without a patient as one more
	// related patient.
	DoctorStatisticsQuery = `
	SELECT
		COUNT(*),
		COUNT(DISTINCT patient_id) + CASE WHEN BOOL_OR(patient_id IS NULL) THEN 1 ELSE 0 END,
		COUNT(*) FILTER (WHERE status NOT IN ('cancelled', 'processing_succeeded')),
		COUNT(*) FILTER (WHERE status NOT IN ('cancelled', 'processing_succeeded') AND date BETWEEN $2 AND $3)
	FROM examinations
	WHERE doctor_id = $1`
)
