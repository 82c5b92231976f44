package requests

import "time"

type CreateExamination struct {
	Patient    int64     `json:"patient" validate:"required,gt=0"`
	Doctor     int64     `json:"doctor" validate:"required,gt=0"`
	Date       time.Time `json:"date" validate:"required,future_date"`
	Overview   *string   `json:"overview" validate:"omitempty,max=1024"`
	HeightCm   *int      `json:"height_cm" validate:"omitempty,gte=0,lte=999"`
	MassKg     *int      `json:"mass_kg" validate:"omitempty,gte=0,lte=999"`
	Symptoms   *string   `json:"symptoms" validate:"omitempty,max=1024"`
	Medication *string   `json:"medication" validate:"omitempty,max=1024"`
}

// UpdateExamination is a partial update, absent fields stay untouched.
type UpdateExamination struct {
	Patient    *int64     `json:"patient" validate:"omitempty,gt=0"`
	Doctor     *int64     `json:"doctor" validate:"omitempty,gt=0"`
	Recording  *int64     `json:"recording" validate:"omitempty,gt=0"`
	Date       *time.Time `json:"date" validate:"omitempty,future_date"`
	Overview   *string    `json:"overview" validate:"omitempty,max=1024"`
	Status     *string    `json:"status" validate:"omitempty,examination_status"`
	HeightCm   *int       `json:"height_cm" validate:"omitempty,gte=0,lte=999"`
	MassKg     *int       `json:"mass_kg" validate:"omitempty,gte=0,lte=999"`
	Symptoms   *string    `json:"symptoms" validate:"omitempty,max=1024"`
	Medication *string    `json:"medication" validate:"omitempty,max=1024"`
}
