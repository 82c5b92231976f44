package requests

type ObtainTokenPair struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshToken is used when no refresh cookie is present.
type RefreshToken struct {
	Refresh string `json:"refresh"`
}

// VerifyToken is used when no access cookie is present.
type VerifyToken struct {
	Token string `json:"token"`
}
