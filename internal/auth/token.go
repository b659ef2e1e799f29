package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies the signed-in provider. Handlers receive ProfileID
// explicitly from the middleware instead of looking it up.
type Claims struct {
	UserID    uint
	ProfileID uint
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(userID, profileID uint) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":       userID,
		"profileId": profileID,
		"exp":       now.Add(i.ttl).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	userID, ok1 := claims["sub"].(float64)
	profileID, ok2 := claims["profileId"].(float64)
	if !ok1 || !ok2 || profileID <= 0 {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: uint(userID), ProfileID: uint(profileID)}, nil
}
