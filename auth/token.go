package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"aulanet/config"
)

// GenerateToken signs a bearer token for the user. token_id names the
// access_tokens row backing this credential; deleting that row revokes
// exactly this token.
func GenerateToken(userID int, tokenID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"token_id": tokenID,
		"exp":      time.Now().Add(time.Hour * time.Duration(config.ConfigInstance.TokenTTLHours)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.ConfigInstance.JWTSecret))
}

// ParseToken verifies the signature and returns the user id and token id
func ParseToken(tokenString string) (int, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.ConfigInstance.JWTSecret), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	tokenID, ok := claims["token_id"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	return int(userID), tokenID, nil
}
