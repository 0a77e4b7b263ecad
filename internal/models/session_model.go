package models

// UserSession is the locally persisted credential record. AccessToken is an
// opaque bearer token issued by the identity provider; Email is display only.
type UserSession struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email,omitempty"`
}

// Active reports whether the session carries a token.
func (s UserSession) Active() bool {
	return s.AccessToken != ""
}
