package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// 管理者セッショントークンの有効期限
const adminSessionTTL = 12 * time.Hour

// 管理者認証。照合はサーバー側のbcryptハッシュ比較のみ
type AdminAuthUsecase struct {
	cfg       config.Config
	admins    repo.AdminUserRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminAuthUsecase(cfg config.Config, admins repo.AdminUserRepository, auditRepo repo.AuditLogRepository) *AdminAuthUsecase {
	return &AdminAuthUsecase{cfg: cfg, admins: admins, auditRepo: auditRepo}
}

type AdminLoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// パスワード照合に成功したら署名済みセッショントークンを返す
func (u *AdminAuthUsecase) Login(ctx context.Context, password string) (AdminLoginOutput, error) {
	if password == "" {
		return AdminLoginOutput{}, NewHTTPError(http.StatusBadRequest, "password required")
	}

	admin, err := u.admins.FindFirst(ctx)
	if err == repo.ErrNotFound {
		//「未設定」と「不一致」はメッセージ文言だけ変える
		return AdminLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "no admin account configured")
	}
	if err != nil {
		slog.Error("admin lookup failed", "err", err)
		return AdminLoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return AdminLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid password")
	}

	now := time.Now()
	expiresAt := now.Add(adminSessionTTL)

	claims := jwt.MapClaims{
		"sub":  admin.ID,
		"role": "ADMIN",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return AdminLoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AdminLoginOutput{Token: signed, ExpiresAt: expiresAt}, nil
}

func (u *AdminAuthUsecase) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return NewHTTPError(http.StatusBadRequest, "all fields required")
	}
	if len(newPassword) < 6 {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	admin, err := u.admins.FindFirst(ctx)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusUnauthorized, "no admin account configured")
	}
	if err != nil {
		slog.Error("admin lookup failed", "err", err)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)) != nil {
		return NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.admins.UpdatePasswordHash(ctx, admin.ID, string(newHash)); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusUnauthorized, "no admin account configured")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		Action:       model.AuditActionChangePassword,
		ResourceType: model.AuditResourceAdmin,
		ResourceID:   admin.ID,
		CreatedAt:    time.Now(),
	}); err != nil {
		slog.Error("audit log write failed", "action", model.AuditActionChangePassword, "err", err)
	}

	return nil
}
