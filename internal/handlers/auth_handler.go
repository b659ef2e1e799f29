package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-facil/internal/auth"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	infraRepo "github.com/BruksfildServices01/agenda-facil/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
	"github.com/BruksfildServices01/agenda-facil/internal/timezone"
	"github.com/BruksfildServices01/agenda-facil/internal/validators"
)

const maxSlugAttempts = 20

type AuthHandler struct {
	db       *gorm.DB
	profiles *infraRepo.ProfileGormRepository
	issuer   *auth.Issuer
	log      *zap.Logger
}

func NewAuthHandler(db *gorm.DB, issuer *auth.Issuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		db:       db,
		profiles: infraRepo.NewProfileGormRepository(db),
		issuer:   issuer,
		log:      log,
	}
}

// --------- Requests ---------

type SignupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Phone       string `json:"phone" binding:"max=20"`
	ServiceType string `json:"service_type" binding:"max=60"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Timezone    string `json:"timezone" binding:"omitempty,tz"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao criar conta.")
		return
	}

	ctx := c.Request.Context()

	slug := req.Slug
	if slug == "" {
		slug, err = h.uniqueSlug(ctx, validators.Slugify(req.Name))
		if err != nil {
			httperr.Unavailable(c, "store_unavailable", "Serviço temporariamente indisponível.")
			return
		}
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.Default()
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
	}
	profile := models.Profile{
		Name:        user.Name,
		Slug:        slug,
		Phone:       req.Phone,
		ServiceType: req.ServiceType,
		Timezone:    tz,
	}

	if err := h.profiles.CreateWithUser(ctx, &user, &profile); err != nil {
		if errors.Is(err, infraRepo.ErrDuplicate) {
			httperr.Conflict(c, "account_exists", "E-mail ou link já cadastrado.")
			return
		}
		h.log.Error("signup failed", zap.Error(err))
		httperr.Internal(c, "failed_to_create_account", "Erro ao criar conta.")
		return
	}

	token, err := h.issuer.Issue(user.ID, profile.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    userView(&user),
		"profile": profile,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao entrar.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	profile, err := h.profiles.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		httperr.Internal(c, "profile_not_found", "Perfil não encontrado.")
		return
	}

	token, err := h.issuer.Issue(user.ID, profile.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userView(&user),
		"profile": profile,
		"token":   token,
	})
}

// uniqueSlug appends -2, -3, ... to base until it is free.
func (h *AuthHandler) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "agenda"
	}

	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		taken, err := h.profiles.SlugTaken(ctx, candidate, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s-%d", base, maxSlugAttempts+1), nil
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
	}
}
