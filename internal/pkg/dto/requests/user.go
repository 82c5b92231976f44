package requests

type RegisterUser struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02,past_date"`
	Type      string `json:"type" validate:"required,user_type"`
}

type UpdateUser struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02,past_date"`
}

type ListUsersQuery struct {
	Type string `schema:"type"`
}
