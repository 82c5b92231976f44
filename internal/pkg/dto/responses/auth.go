package responses

type AccessToken struct {
	Access string `json:"access"`
}

type Empty struct{}
