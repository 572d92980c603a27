// Package identity is the process-wide identity provider client: it owns
// credential storage, password checks and bearer-token mint/verify. Built
// once at startup and passed by reference to everything that needs it.
package identity

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

// Identity is the decoded result of a verified bearer credential.
type Identity struct {
	Subject string
	Email   string
}

// Provider is the narrow surface the rest of the system sees.
type Provider interface {
	// CreateIdentity registers a credential and returns the new subject id
	// plus a fresh bearer token.
	CreateIdentity(email, password string) (string, string, error)
	// Authenticate exchanges a credential for a bearer token. Wrong
	// credentials come back as a Forbidden error.
	Authenticate(email, password string) (string, error)
	// Verify validates a bearer token and returns the identity it carries.
	Verify(token string) (*Identity, error)
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTProvider stores credentials in Postgres and signs HS256 tokens.
type JWTProvider struct {
	DB     *sql.DB
	Secret []byte
	TTL    time.Duration
}

func NewJWTProvider(db *sql.DB, secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{DB: db, Secret: []byte(secret), TTL: ttl}
}

// EnsureSchema creates the identities table. Run once at startup.
func (p *JWTProvider) EnsureSchema() error {
	_, err := p.DB.Exec(`CREATE TABLE IF NOT EXISTS identities (
		subject_id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		logger.Sugar.Errorf("Failed to ensure identities schema: %v", err)
	}
	return err
}

func (p *JWTProvider) CreateIdentity(email, password string) (string, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", apperr.Storef(err, "User could not be created")
	}

	subjectID := uuid.NewString()
	_, err = p.DB.Exec(
		`INSERT INTO identities (subject_id, email, password_hash) VALUES ($1, $2, $3)`,
		subjectID, email, string(hash))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", "", apperr.Validationf("User could not be created",
				map[string]string{"email": fmt.Sprintf("%s is already in use", email)})
		}
		logger.Sugar.Errorf("Failed to create identity for %s: %v", email, err)
		return "", "", apperr.Storef(err, "User could not be created")
	}

	token, err := p.mint(subjectID, email)
	if err != nil {
		return "", "", err
	}
	return subjectID, token, nil
}

func (p *JWTProvider) Authenticate(email, password string) (string, error) {
	var subjectID, hash string
	err := p.DB.QueryRow(
		`SELECT subject_id, password_hash FROM identities WHERE email = $1`,
		email).Scan(&subjectID, &hash)
	if err == sql.ErrNoRows {
		return "", wrongCredentials()
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to look up identity for %s: %v", email, err)
		return "", apperr.Storef(err, "Login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", wrongCredentials()
	}
	return p.mint(subjectID, email)
}

// wrongCredentials is the 403 returned for a bad email or password. Both
// cases produce the same response.
func wrongCredentials() *apperr.Error {
	return &apperr.Error{
		Kind:    apperr.Forbidden,
		Message: "Invalid credentials provided",
		Fields:  map[string]string{"credentials": "Invalid credentials provided"},
	}
}

func (p *JWTProvider) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.Secret, nil
	})
	if err != nil {
		return nil, apperr.Unauthorizedf("Invalid or expired token: %v", err)
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return nil, apperr.Unauthorizedf("Could not parse token claims")
	}
	return &Identity{Subject: c.Subject, Email: c.Email}, nil
}

func (p *JWTProvider) mint(subjectID, email string) (string, error) {
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.Secret)
	if err != nil {
		logger.Sugar.Errorf("Failed to sign token for %s: %v", subjectID, err)
		return "", apperr.Storef(err, "Could not issue token")
	}
	return token, nil
}
