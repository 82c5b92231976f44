package models

import "time"

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID      int64
	Email       string
	Type        UserType
	IsStaff     bool
	IsSuperuser bool
	IsService   bool
	TokenID     string
	ExpiresAt   time.Time
}

// ServicePrincipal is the staff identity of internal callers authenticated
// with the service API key.
func ServicePrincipal() *Principal {
	return &Principal{
		Email:     "service@bowell.internal",
		Type:      UserTypeStaff,
		IsStaff:   true,
		IsService: true,
	}
}

func (p *Principal) IsDoctor() bool {
	return p != nil && p.Type == UserTypeDoctor
}

func (p *Principal) IsPatient() bool {
	return p != nil && p.Type == UserTypePatient
}

// CanManageUser reports whether the principal may modify the given account.
func (p *Principal) CanManageUser(userID int64) bool {
	return p != nil && (p.UserID == userID || p.IsSuperuser)
}

// Role is the RBAC subject of the principal.
func (p *Principal) Role() string {
	if p == nil {
		return "ANONYMOUS"
	}
	if p.IsSuperuser {
		return "SUPERUSER"
	}
	return string(p.Type)
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenClaims struct {
	UserID    int64
	TokenType string
	TokenID   string
	ExpiresAt time.Time
}
