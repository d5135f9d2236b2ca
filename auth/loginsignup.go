package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kerbside/globals"
	"kerbside/middleware"
	"kerbside/models"
	"kerbside/rdx"
	"kerbside/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 72 * time.Hour

var (
	ErrUserNotFound      = errors.New("User not found")
	ErrIncorrectPassword = errors.New("Incorrect password")
)

// Handlers owns the registration and login surface.
type Handlers struct {
	Store Store
}

func NewHandlers(store Store) *Handlers {
	return &Handlers{Store: store}
}

// RequestOTP issues a one-time code to the given email and returns an
// opaque handle the registration call must present alongside the code.
func (h *Handlers) RequestOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		sendError(w, http.StatusBadRequest, "Email is required")
		return
	}

	handle := utils.GetUUID()
	otp := GenerateOTP(6)

	if err := storeOTP(handle, input.Email, otp); err != nil {
		log.Printf("OTP storage failed: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to issue OTP")
		return
	}
	if err := SendEmailOTP(input.Email, otp); err != nil {
		log.Printf("OTP email failed: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{"handle": handle}, "OTP sent", nil)
}

// Register verifies the OTP and creates the user record with a bcrypt
// password hash and the default role.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Handle   string `json:"handle"`
		OTP      string `json:"otp"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Handle == "" || input.OTP == "" || input.Email == "" || input.Username == "" || input.Password == "" {
		sendError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	email, ok := verifyOTP(input.Handle, input.OTP)
	if !ok || email != input.Email {
		sendError(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Store.UserByEmail(ctx, input.Email)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if existing != nil {
		sendError(w, http.StatusConflict, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Hash error: %v", err)
		sendError(w, http.StatusInternalServerError, "Could not process password")
		return
	}

	user := models.User{
		UserID:       "u" + utils.GenerateRandomString(10),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := h.Store.InsertUser(ctx, user); err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	clearOTP(input.Handle)

	token, err := generateAccessToken(user)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.SendResponse(w, http.StatusCreated, map[string]string{
		"token":  token,
		"userid": user.UserID,
		"role":   user.Role,
	}, "Registration successful", nil)
}

// Login authenticates by email and password. The two failure messages
// are distinct and user-visible.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		sendError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := Login(ctx, h.Store, input.Email, input.Password)
	if errors.Is(err, ErrUserNotFound) {
		sendError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}
	if errors.Is(err, ErrIncorrectPassword) {
		sendError(w, http.StatusUnauthorized, ErrIncorrectPassword.Error())
		return
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := generateAccessToken(*user)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.Store.UpdateLastLogin(ctx, user.UserID, time.Now()); err != nil {
		log.Printf("last-login update failed: %v", err)
	}
	if err := rdx.RdxHset("tokki", user.UserID, token); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":    token,
		"userid":   user.UserID,
		"username": user.Username,
		"role":     user.Role,
	}, "Login successful", nil)
}

// Login resolves the user record for an email/password pair.
func Login(ctx context.Context, store Store, email, password string) (*models.User, error) {
	user, err := store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

// Session resolves the caller's role from the bearer token, rechecked
// against the users collection so a role change takes effect without
// re-login. Defaults to the user role when the record carries none.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		sendError(w, http.StatusUnauthorized, "No active session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	role := models.RoleUser
	user, err := h.Store.UserByEmail(ctx, claims.Email)
	if err != nil {
		log.Printf("session role lookup failed: %v", err)
	} else if user != nil && user.Role != "" {
		role = user.Role
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"userid": claims.UserID,
		"email":  claims.Email,
		"role":   role,
	}, "Session active", nil)
}

// Logout drops the cached access token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		sendError(w, http.StatusUnauthorized, "Missing token")
		return
	}

	if _, err := rdx.RdxHdel("tokki", claims.UserID); err != nil {
		log.Printf("Redis token remove failed: %v", err)
		sendError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "User logged out", nil)
}

func generateAccessToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func sendError(w http.ResponseWriter, code int, msg string) {
	utils.SendResponse(w, code, nil, msg, errors.New(msg))
}
