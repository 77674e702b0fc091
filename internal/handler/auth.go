package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/repository"
	"github.com/iliyamo/wedding-reservation/internal/utils"
)

// AuthHandler issues access tokens and serves the current actor's profile.
// Account creation lives in the onboarding system; this service only
// authenticates existing users.
type AuthHandler struct {
	users      *repository.UserRepo
	jwtSecret  string
	ttlMin     int
	bcryptCost int
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(users *repository.UserRepo, jwtSecret string, ttlMin, bcryptCost int) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, ttlMin: ttlMin, bcryptCost: bcryptCost}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email/password for a signed access token.  Unknown
// emails and bad passwords return the same 401 so the endpoint does not
// leak which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	u, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return respondErr(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.jwtSecret, u, h.ttlMin)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"role":         string(u.Role),
	})
}

// Me returns the authenticated user's profile, including the guardian
// fields a groom must complete before booking.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	u, err := h.users.UserByID(c.Request().Context(), actor.ID)
	if err != nil {
		return respondErr(c, err)
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	resp := echo.Map{
		"id":                u.ID,
		"email":             u.Email,
		"role":              string(u.Role),
		"clan_id":           u.ClanID,
		"county_id":         u.CountyID,
		"name":              u.Name,
		"phone":             u.Phone,
		"birth_place":       u.BirthPlace,
		"address":           u.Address,
		"guardian_name":     u.GuardianName,
		"guardian_phone":    u.GuardianPhone,
		"guardian_address":  u.GuardianAddress,
		"guardian_complete": u.GuardianComplete(),
	}
	if u.BirthDate != nil {
		resp["birth_date"] = u.BirthDate.Format(dateLayout)
	}
	if u.GuardianBirthDate != nil {
		resp["guardian_birth_date"] = u.GuardianBirthDate.Format(dateLayout)
	}
	return c.JSON(http.StatusOK, resp)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword lets an authenticated user rotate their own password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password and new_password are required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 8 characters"})
	}

	ctx := c.Request().Context()
	u, err := h.users.UserByID(ctx, actor.ID)
	if err != nil {
		return respondErr(c, err)
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.bcryptCost)
	if err != nil {
		return respondErr(c, err)
	}
	if err := h.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
