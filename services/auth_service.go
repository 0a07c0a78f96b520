package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"laptop-request-api/models"
	"laptop-request-api/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued to admins.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles admin signup, login and token verification.
type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService instantiates the service with an HMAC secret and token lifetime.
func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	if secret == "" {
		log.Println("Warning: JWT_SECRET is empty; admin login is disabled")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// AuthSettingsFromEnv reads JWT_SECRET and JWT_EXPIRE_HOURS.
func AuthSettingsFromEnv() (string, time.Duration) {
	// Get expiration hours from env
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil || expireHours <= 0 {
		expireHours = 24 // default 24 hours
	}
	return os.Getenv("JWT_SECRET"), time.Duration(expireHours) * time.Hour
}

// Signup registers an admin profile.
func (a *AuthService) Signup(ctx context.Context, email, password, username string) (*models.User, error) {
	email = strings.ToLower(utils.SanitizeInput(email))
	if !utils.ValidateEmail(email) {
		return nil, validationError("Invalid email format", "email")
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, validationError(msg, "password")
	}
	username = utils.SanitizeInput(username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, storageError("Failed to create account", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: a.now(),
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, validationError("Email is already registered", "email")
		}
		log.Printf("auth: create user failed: %v", err)
		return nil, storageError("Failed to create account", err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed token.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if len(a.secret) == 0 {
		return "", nil, configurationError("Authentication is not configured")
	}

	email = strings.ToLower(utils.SanitizeInput(email))
	user, err := a.users.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, validationError(ErrInvalidCredentials.Error())
	}
	if err != nil {
		return "", nil, storageError("Failed to sign in", err)
	}
	if !CheckPasswordHash(password, user.Password) {
		return "", nil, validationError(ErrInvalidCredentials.Error())
	}

	token, err := a.generateToken(user)
	if err != nil {
		return "", nil, storageError("Failed to generate token", err)
	}
	return token, user, nil
}

// Profile returns the admin profile for uid.
func (a *AuthService) Profile(ctx context.Context, uid string) (*models.User, error) {
	user, err := a.users.FindUserByUID(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		return nil, storageError("User not found", err)
	}
	if err != nil {
		return nil, storageError("Failed to fetch profile", err)
	}
	return user, nil
}

// ParseToken validates an HS256 token and returns its claims.
func (a *AuthService) ParseToken(tokenString string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("authentication is not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// generateToken creates JWT token
func (a *AuthService) generateToken(user *models.User) (string, error) {
	now := a.now()
	claims := Claims{
		UID:   user.UID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
