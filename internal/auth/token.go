package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry is the default lifetime of a room session token.
const DefaultTokenExpiry = 24 * time.Hour

const issuer = "shadowquest"

var (
	ErrSecretRequired = errors.New("token secret is required")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims identify a room player. The subject is the room_player_id.
type Claims struct {
	RoomID       string `json:"room_id"`
	RoomPlayerID string `json:"room_player_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 session token for roomPlayerID in roomID.
func GenerateToken(roomID, roomPlayerID string, secret []byte, expiry time.Duration) (token string, expiresAt time.Time, err error) {
	if len(secret) == 0 {
		return "", time.Time{}, ErrSecretRequired
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	now := time.Now().UTC()
	expiresAt = now.Add(expiry)
	claims := Claims{
		RoomID:       roomID,
		RoomPlayerID: roomPlayerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   roomPlayerID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// VerifyToken checks signature, algorithm and expiry and returns the claims.
func VerifyToken(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrSecretRequired
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.RoomID == "" || claims.RoomPlayerID == "" {
		return nil, fmt.Errorf("%w: missing room_id or room_player_id", ErrInvalidToken)
	}
	return claims, nil
}
