package helpers

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// User types carried in JWT claims.
const (
	TypeGuest       = "GUEST"
	TypeHostPending = "HOST_PENDING"
	TypeHost        = "HOST"
	TypeAdmin       = "ADMIN"
)

// SignedDetails are the claims embedded in every access token.
type SignedDetails struct {
	Email      string
	First_name string
	Last_name  string
	Uid        string
	User_type  string
	jwt.StandardClaims
}

// TokenHelper signs and validates tokens with an injected secret, so there is
// no package-level key lookup.
type TokenHelper struct {
	secret []byte
}

func NewTokenHelper(secretKey string) (*TokenHelper, error) {
	if secretKey == "" {
		return nil, errors.New("token helper: SECRET_KEY is empty")
	}
	return &TokenHelper{secret: []byte(secretKey)}, nil
}

// GenerateAllTokens creates access and refresh tokens for a user.
func (t *TokenHelper) GenerateAllTokens(email string, firstName string, lastName string, userType string, uid string) (signedToken string, signedRefreshToken string, err error) {
	claims := &SignedDetails{
		Email:      email,
		First_name: firstName,
		Last_name:  lastName,
		Uid:        uid,
		User_type:  userType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * 24).Unix(),
		},
	}

	refreshClaims := &SignedDetails{
		Uid: uid,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * 24 * 30).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}

	return token, refreshToken, nil
}

// ValidateToken verifies a token and returns its claims.
func (t *TokenHelper) ValidateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(token *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("the token is invalid: %v", err)
	}

	claims, ok := token.Claims.(*SignedDetails)
	if !ok {
		return nil, errors.New("the token is invalid")
	}

	if claims.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("token is expired")
	}

	return claims, nil
}

// MatchUserType errors unless the authenticated caller carries the given role.
func MatchUserType(c *gin.Context, role string) error {
	userType := c.GetString("user_type")
	if userType != role {
		return errors.New("unauthorized to access this resource")
	}
	return nil
}
