package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Service performs authentication-related business logic: credential
// verification, transparent legacy-credential migration and token issuance.
type Service struct {
	creds  CredentialRepository
	tokens TokenGenerator
	hasher *PasswordHasher
	logger *slog.Logger
}

func NewService(creds CredentialRepository, tokens TokenGenerator, hasher *PasswordHasher, logger *slog.Logger) *Service {
	if hasher == nil {
		hasher = NewPasswordHasher(DefaultHashIterations)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		creds:  creds,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	cred, err := s.creds.GetCredential(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !cred.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	if err := s.verifyAndMigrate(cred, dto.Password); err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(cred)
}

// verifyAndMigrate checks the password against the stored credential. A
// legacy plaintext row that matches is rewritten to the hashed format so the
// plaintext disappears after the first successful login.
func (s *Service) verifyAndMigrate(cred *Credential, password string) error {
	if IsHashedCredential(cred.PasswordHash) {
		ok, err := s.hasher.Verify(password, cred.PasswordHash)
		if err != nil {
			s.logger.Error("credential verification failed on corrupt row", "user_id", cred.UserID, "error", err)
			return err
		}
		if !ok {
			return ErrInvalidCredentials
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(cred.PasswordHash), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("legacy credential rehash failed", "user_id", cred.UserID, "error", err)
		return nil
	}
	if err := s.creds.UpdatePasswordHash(cred.UserID, hash); err != nil {
		// Migration is best-effort; the login itself already succeeded.
		s.logger.Error("legacy credential migration failed", "user_id", cred.UserID, "error", err)
	} else {
		s.logger.Info("migrated legacy credential to hashed format", "user_id", cred.UserID)
	}
	return nil
}

func (s *Service) issueTokens(cred *Credential) (AuthTokens, error) {
	subject := strconv.FormatInt(cred.UserID, 10)

	accessToken, err := s.tokens.GenerateAccessToken(subject, cred.Email, cred.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(subject, cred.Email, cred.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens validates a refresh token and returns a new token pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// ChangePassword verifies the current password and stores a hash of the new
// one. Legacy plaintext rows are accepted for the current-password check and
// leave the table hashed afterwards either way.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	cred, err := s.creds.GetCredentialByUserID(userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if err := s.verifyAndMigrate(cred, dto.CurrentPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}
	return s.creds.UpdatePasswordHash(userID, hash)
}

// IdentityFromClaims resolves the numeric subject out of validated claims.
// Unresolvable claims yield a nil identity, which every authorization path
// treats as "deny".
func IdentityFromClaims(claims *Claims) *Identity {
	if claims == nil || claims.UserID == "" {
		return nil
	}
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &Identity{UserID: id, Email: claims.Email, Role: claims.Role}
}

// GenerateAccessToken creates a new access token.
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email, role string) (string, error) {
	return j.signed(userID, email, role, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token.
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email, role string) (string, error) {
	return j.signed(userID, email, role, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signed(userID, email, role string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens outlive the access TTL; pick the secret by the
		// remaining lifetime of the presented token.
		if claims, ok := token.Claims.(*Claims); ok && claims.ExpiresAt != nil {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
