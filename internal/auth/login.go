package auth

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/easyocr/vision-ocr/internal/models"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// LoginHandler authenticates against the users configured in config.yaml
// (bcrypt password hashes) and issues a JWT.
func LoginHandler(users []models.UserConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, `{"error":"email and password are required"}`, http.StatusBadRequest)
			return
		}

		var match *models.UserConfig
		for i := range users {
			if users[i].Email == req.Email {
				match = &users[i]
				break
			}
		}
		if match == nil || bcrypt.CompareHashAndPassword([]byte(match.PasswordHash), []byte(req.Password)) != nil {
			http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}

		token, err := GenerateToken(req.Email)
		if err != nil {
			http.Error(w, `{"error":"failed to generate token"}`, http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(LoginResponse{
			Token: token,
			Email: req.Email,
		})
	}
}
