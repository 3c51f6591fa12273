package security

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"pony-express/config/common"
)

type JWT struct {
	config common.JWTConfig
	method jwt.SigningMethod
	now    func() time.Time
}

func NewJWT(config common.JWTConfig) (*JWT, error) {
	method := jwt.GetSigningMethod(config.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", config.Algorithm)
	}
	if len(config.SecretKey) == 0 {
		return nil, fmt.Errorf("jwt secret key is empty")
	}
	return &JWT{config: config, method: method, now: time.Now}, nil
}

func (j *JWT) CookieKey() string {
	return j.config.CookieKey
}

func (j *JWT) Duration() time.Duration {
	return j.config.Duration
}

// GenerateToken signs {sub, iss, iat, exp} for the given account id.
func (j *JWT) GenerateToken(accountID uint) (string, error) {
	issuedAt := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(accountID), 10),
		Issuer:    j.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.config.Duration)),
	}

	token := jwt.NewWithClaims(j.method, claims)
	return token.SignedString(j.config.SecretKey)
}

// Keyfunc hands out the secret only for tokens signed with the configured
// algorithm.
func (j *JWT) Keyfunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != j.method.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method %q", jwt.ErrTokenSignatureInvalid, token.Method.Alg())
	}
	return j.config.SecretKey, nil
}

// VerifyJwtToken checks signature, algorithm, issuer and expiry. Expired
// tokens fail with an error wrapping jwt.ErrTokenExpired.
func (j *JWT) VerifyJwtToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, j.Keyfunc,
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithIssuer(j.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (j *JWT) GetAccountIdFromToken(token string) (uint, error) {
	claims, err := j.VerifyJwtToken(token)
	if err != nil {
		return 0, err
	}
	return subjectID(claims)
}

// AccountIDFromClaims applies the issuer and expiry rules to claims whose
// signature was already verified. A token is expired from the instant its
// exp is reached.
func (j *JWT) AccountIDFromClaims(claims jwt.Claims) (uint, error) {
	validator := jwt.NewValidator(
		jwt.WithIssuer(j.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err := validator.Validate(claims); err != nil {
		return 0, err
	}
	return subjectID(claims)
}

func subjectID(claims jwt.Claims) (uint, error) {
	subject, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}
	accountID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", jwt.ErrTokenInvalidSubject, subject)
	}
	return uint(accountID), nil
}
