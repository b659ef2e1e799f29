package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	infraRepo "github.com/BruksfildServices01/agenda-facil/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-facil/internal/media"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// PhotoStore persists processed profile photos and returns their URL.
type PhotoStore interface {
	PutPhoto(ctx context.Context, profileID uint, data []byte) (string, error)
}

type MeHandler struct {
	db            *gorm.DB
	profiles      *infraRepo.ProfileGormRepository
	photos        PhotoStore
	publicBaseURL string
	log           *zap.Logger
}

// NewMeHandler wires the profile endpoints. photos may be nil when storage
// is not configured.
func NewMeHandler(db *gorm.DB, photos PhotoStore, publicBaseURL string, log *zap.Logger) *MeHandler {
	return &MeHandler{
		db:            db,
		profiles:      infraRepo.NewProfileGormRepository(db),
		photos:        photos,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

type UpdateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Slug        *string `json:"slug" binding:"omitempty,slug"`
	Timezone    *string `json:"timezone" binding:"omitempty,tz"`
	ServiceType *string `json:"service_type" binding:"omitempty,max=60"`
}

func (h *MeHandler) loadProfile(c *gin.Context) (*models.Profile, bool) {
	var p models.Profile
	if err := h.db.WithContext(c.Request.Context()).
		First(&p, middleware.ProfileID(c)).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "profile_not_found", "Perfil não encontrado.")
			return nil, false
		}
		httperr.Unavailable(c, "store_unavailable", "Erro ao buscar perfil.")
		return nil, false
	}
	return &p, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		First(&user, middleware.UserID(c)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userView(&user),
		"profile": profile,
	})
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if req.Slug != nil && *req.Slug != profile.Slug {
		taken, err := h.profiles.SlugTaken(c.Request.Context(), *req.Slug, profile.ID)
		if err != nil {
			httperr.Unavailable(c, "store_unavailable", "Erro ao validar link.")
			return
		}
		if taken {
			httperr.Conflict(c, "slug_already_exists", "Este link já está em uso.")
			return
		}
		profile.Slug = *req.Slug
	}
	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}
	if req.ServiceType != nil {
		profile.ServiceType = *req.ServiceType
	}

	if err := h.profiles.Save(c.Request.Context(), profile); err != nil {
		if errors.Is(err, infraRepo.ErrDuplicate) {
			httperr.Conflict(c, "slug_already_exists", "Este link já está em uso.")
			return
		}
		httperr.Internal(c, "failed_to_update_profile", "Erro ao salvar perfil.")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadPhoto accepts a multipart "photo" field, stores a 512px WebP version
// and saves its URL on the profile.
func (h *MeHandler) UploadPhoto(c *gin.Context) {
	if h.photos == nil {
		httperr.Unavailable(c, "storage_disabled", "Upload de fotos indisponível.")
		return
	}

	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Envie a foto no campo \"photo\".")
		return
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.BadRequest(c, "photo_too_large", "A foto deve ter no máximo 8 MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Não foi possível ler a foto.")
		return
	}
	defer f.Close()

	data, err := media.ProcessPhoto(f)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Formato de imagem não suportado.")
		return
	}

	url, err := h.photos.PutPhoto(c.Request.Context(), profile.ID, data)
	if err != nil {
		h.log.Error("photo upload failed", zap.Uint("profile_id", profile.ID), zap.Error(err))
		httperr.BadGateway(c, "upload_failed", "Erro ao enviar a foto.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(profile).
		Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Erro ao salvar perfil.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

func (h *MeHandler) BookingLink(c *gin.Context) {
	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug": profile.Slug,
		"url":  h.publicBaseURL + "/agendar/" + profile.Slug,
	})
}
