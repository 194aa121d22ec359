package models

// AuthResult is what every identity operation (register, login, refresh)
// returns to the caller. Exactly one of the two shapes holds:
// Succeeded true with both tokens set, or Succeeded false with at least
// one human readable reason in Errors.
type AuthResult struct {
	Succeeded    bool
	AccessToken  string
	RefreshToken string
	Errors       []string
}

func AuthSuccess(access string, refresh string) AuthResult {
	return AuthResult{
		Succeeded:    true,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

func AuthFailure(reasons ...string) AuthResult {
	return AuthResult{Errors: reasons}
}
