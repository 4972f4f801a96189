package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	queue_publisher "github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// Token lifetimes for the opaque tokens delivered by email.
const (
	activationTokenTTL = 24 * time.Hour
	resetTokenTTL      = 1 * time.Hour
)

// AccountHandler bundles dependencies for the accounts endpoints.
type AccountHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAccountHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type activateReq struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
type resetRequestReq struct {
	Email string `json:"email"`
}
type resetCompleteReq struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}
type changePasswordReq struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changeGroupReq struct {
	GroupName string `json:"group_name"`
}

type loginResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// publishEmail fires an email event for the background consumer. Delivery
// failures are logged by the publisher and deliberately not surfaced to
// the client; the account flow must not depend on the broker being up.
func (h *AccountHandler) publishEmail(ctx context.Context, kind, email, path, rawToken string) {
	link := fmt.Sprintf("%s%s?token=%s", strings.TrimSuffix(h.Cfg.BaseURL, "/"), path, rawToken)
	_ = queue_publisher.PublishAccountEmail(ctx, queue.AccountEmailEvent{
		Kind:   kind,
		Email:  email,
		Link:   link,
		SentAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// Register creates an inactive user in the `user` group, stores a 24h
// activation token and emails the activation link.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return jsonDetail(c, http.StatusBadRequest,
			"Password must be at least 8 characters long and contain letters and digits.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	groupID, err := h.Users.GroupIDByName(ctx, model.GroupUser)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during user creation.")
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during user creation.")
	}
	uid, err := h.Users.Create(ctx, req.Email, hash, groupID)
	if err != nil {
		if err == repository.ErrEmailExists {
			return jsonDetail(c, http.StatusConflict,
				fmt.Sprintf("A user with this email %s already exists.", req.Email))
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during user creation.")
	}

	tok, err := utils.NewOpaqueToken(activationTokenTTL)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during user creation.")
	}
	if err := h.Tokens.StoreActivation(ctx, uid, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during user creation.")
	}
	h.publishEmail(ctx, queue.EmailActivation, req.Email, "/accounts/activate/", tok.Raw)

	return c.JSON(http.StatusCreated, echo.Map{"id": uid, "email": req.Email})
}

// Activate flips the account to active when the token is valid. An expired
// token is replaced and the new one re-sent.
func (h *AccountHandler) Activate(c echo.Context) error {
	var req activateReq
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Token == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid or expired activation token.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid or expired activation token.")
	}
	if u.IsActive {
		return jsonDetail(c, http.StatusBadRequest, "User account is already active.")
	}

	tok, err := h.Tokens.GetActivationByEmail(ctx, req.Email, utils.HashTokenRaw(req.Token))
	if err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid or expired activation token.")
	}
	if time.Now().UTC().After(tok.ExpiresAt) {
		// replace the stale token and mail a new link
		_ = h.Tokens.DeleteActivation(ctx, tok.ID)
		fresh, err := utils.NewOpaqueToken(activationTokenTTL)
		if err != nil {
			return jsonDetail(c, http.StatusInternalServerError, "An error occurred during activation.")
		}
		if err := h.Tokens.StoreActivation(ctx, u.ID, utils.HashTokenRaw(fresh.Raw), fresh.Exp); err != nil {
			return jsonDetail(c, http.StatusInternalServerError, "An error occurred during activation.")
		}
		h.publishEmail(ctx, queue.EmailActivation, req.Email, "/accounts/activate/", fresh.Raw)
		return jsonDetail(c, http.StatusBadRequest, "New activation token was sent to user.")
	}

	if err := h.Users.Activate(ctx, u.ID); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during activation.")
	}
	_ = h.Tokens.DeleteActivation(ctx, tok.ID)
	return jsonDetail(c, http.StatusOK, "User account activated successfully.")
}

// RequestPasswordReset always answers 200 so the endpoint cannot be used
// to probe which emails are registered. Active users get their old reset
// tokens invalidated and a fresh link mailed.
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	const answer = "If you are registered, you will receive an email with instructions."

	var req resetRequestReq
	if err := c.Bind(&req); err != nil {
		return jsonDetail(c, http.StatusOK, answer)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return jsonDetail(c, http.StatusOK, answer)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !u.IsActive {
		return jsonDetail(c, http.StatusOK, answer)
	}

	tok, err := utils.NewOpaqueToken(resetTokenTTL)
	if err != nil {
		return jsonDetail(c, http.StatusOK, answer)
	}
	if err := h.Tokens.ReplaceReset(ctx, u.ID, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return jsonDetail(c, http.StatusOK, answer)
	}
	h.publishEmail(ctx, queue.EmailPasswordReset, req.Email, "/accounts/reset-password/complete/", tok.Raw)
	return jsonDetail(c, http.StatusOK, answer)
}

// CompletePasswordReset sets a new password when the reset token matches.
// A wrong or expired token also burns the stored token.
func (h *AccountHandler) CompletePasswordReset(c echo.Context) error {
	var req resetCompleteReq
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Token == "" || req.Password == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or token.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return jsonDetail(c, http.StatusBadRequest,
			"Password must be at least 8 characters long and contain letters and digits.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !u.IsActive {
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or token.")
	}
	tok, err := h.Tokens.GetResetForUser(ctx, u.ID)
	if err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or token.")
	}
	if tok.TokenHash != utils.HashTokenRaw(req.Token) || time.Now().UTC().After(tok.ExpiresAt) {
		_ = h.Tokens.DeleteReset(ctx, tok.ID)
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or token.")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while resetting the password.")
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while resetting the password.")
	}
	_ = h.Tokens.DeleteReset(ctx, tok.ID)
	_ = h.Tokens.RevokeAllForUser(ctx, u.ID) // old sessions die with the old password
	return jsonDetail(c, http.StatusOK, "Password reset successfully.")
}

// ChangePassword lets an authenticated user rotate their own password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or password.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or password.")
	}
	if u.Email != req.Email || !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return jsonDetail(c, http.StatusBadRequest, "Invalid email or password.")
	}
	if req.NewPassword == req.OldPassword {
		return jsonDetail(c, http.StatusBadRequest, "New password must be different from old password.")
	}
	if err := utils.ValidatePasswordStrength(req.NewPassword); err != nil {
		return jsonDetail(c, http.StatusBadRequest,
			"Password must be at least 8 characters long and contain letters and digits.")
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while changing the password.")
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while changing the password.")
	}
	_ = h.Tokens.RevokeAllForUser(ctx, uid)
	return jsonDetail(c, http.StatusOK, "Password changed successfully.")
}

// Login verifies credentials and returns a fresh access/refresh pair.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonDetail(c, http.StatusUnauthorized, "Invalid email or password.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during login.")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid email or password.")
	}
	if !u.IsActive {
		return jsonDetail(c, http.StatusForbidden, "User account is not activated.")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.GroupName, h.Cfg.AccessTTLMin)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during login.")
	}
	refresh, err := utils.NewOpaqueToken(time.Duration(h.Cfg.RefreshTTLDays) * 24 * time.Hour)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during login.")
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashTokenRaw(refresh.Raw), refresh.Exp); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during login.")
	}

	return c.JSON(http.StatusCreated, loginResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw, // raw back to client; only the hash is stored
		TokenType:    "bearer",
	})
}

// Logout revokes the presented refresh token.
func (h *AccountHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonDetail(c, http.StatusBadRequest, "Refresh token not found.")
	}
	hash := utils.HashTokenRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Refresh token not found.")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during logout.")
	}
	return jsonDetail(c, http.StatusOK, "Logged out successfully.")
}

// Refresh issues a new access token for a valid refresh token without
// rotating the refresh token itself.
func (h *AccountHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonDetail(c, http.StatusUnauthorized, "Refresh token not found.")
	}
	hash := utils.HashTokenRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Refresh token not found.")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonDetail(c, http.StatusNotFound, "User not found.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during token refresh.")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.GroupName, h.Cfg.AccessTTLMin)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during token refresh.")
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": access.Token})
}

// ChangeUserGroup is the admin endpoint that moves a user to another group.
func (h *AccountHandler) ChangeUserGroup(c echo.Context) error {
	uid, err := paramUint(c, "user_id", "User not found.")
	if err != nil {
		return err
	}
	var req changeGroupReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.GroupName) == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	group := strings.ToLower(strings.TrimSpace(req.GroupName))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return jsonDetail(c, http.StatusNotFound, "User not found.")
	}
	groupID, err := h.Users.GroupIDByName(ctx, group)
	if err != nil {
		return jsonDetail(c, http.StatusNotFound, "User group not found.")
	}
	if u.GroupID == groupID {
		return jsonDetail(c, http.StatusOK, "User is already in this group.")
	}
	if err := h.Users.ChangeGroup(ctx, uid, groupID); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while changing the group.")
	}
	return jsonDetail(c, http.StatusOK, "User group changed successfully.")
}

// ActivateUser is the admin endpoint that activates an account directly.
func (h *AccountHandler) ActivateUser(c echo.Context) error {
	uid, err := paramUint(c, "user_id", "User not found.")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return jsonDetail(c, http.StatusNotFound, "User not found.")
	}
	if u.IsActive {
		return jsonDetail(c, http.StatusOK, "User is already active.")
	}
	if err := h.Users.Activate(ctx, uid); err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred during activation.")
	}
	return jsonDetail(c, http.StatusOK, "User activated successfully.")
}
