package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

// Principal es la identidad decodificada de un token
type Principal struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Verifier decodifica un token y retorna el principal que representa
type Verifier interface {
	Verify(token string) (*Principal, error)
}

// Claims del token auth-token
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// JWTVerifier valida tokens HS256 firmados con un secreto compartido
type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue firma un token para el sujeto y rol indicados
func (v *JWTVerifier) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify parsea y valida el token, retornando el principal si es válido
func (v *JWTVerifier) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	principal := &Principal{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if claims.ExpiresAt > 0 {
		principal.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	return principal, nil
}
