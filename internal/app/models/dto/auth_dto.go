package dto

// LoginRequest is the staff login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"staff@school.edu.tr"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest rotates a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int64  `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn" example:"2592000"`
}

// UserProfile is the current staff user's profile representation
type UserProfile struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"staff@school.edu.tr"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleType  string `json:"roleType" example:"STAFF" enums:"ADMIN,STAFF"`
}
