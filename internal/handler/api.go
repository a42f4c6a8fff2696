package handler

import (
	"io"
	"log"

	"github.com/campaignsite/internal/config"
	"github.com/campaignsite/internal/imaging"
	"github.com/campaignsite/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	library       *service.GalleryLibrary
	editors       map[service.Category]*service.GalleryEditor
	adminUserName string
	adminPwdHash  []byte
	uploadDir     string
	uploadURL     string
}

// NewAPI constructs a handler set over the gallery library. Each category
// gets one long-lived editor so read-modify-write cycles stay serialized.
func NewAPI(cfg config.AppConfig, library *service.GalleryLibrary) *API {
	embed := func(r io.Reader) (string, error) {
		return imaging.EncodeToDataURL(r, cfg.MaxImageDimension)
	}

	editors := make(map[service.Category]*service.GalleryEditor)
	for _, category := range service.Categories() {
		editors[category] = service.NewGalleryEditor(library, category, embed)
	}

	return &API{
		library:       library,
		editors:       editors,
		adminUserName: cfg.AdminUserName,
		adminPwdHash:  resolvePasswordHash(cfg),
		uploadDir:     cfg.UploadDir,
		uploadURL:     cfg.UploadURLPath,
	}
}

// Library exposes the underlying gallery library, mainly for wiring in main.
func (a *API) Library() *service.GalleryLibrary {
	return a.library
}

func resolvePasswordHash(cfg config.AppConfig) []byte {
	if cfg.AdminPasswordHash != "" {
		return []byte(cfg.AdminPasswordHash)
	}

	password := cfg.AdminPassword
	if password == "" {
		password = "admin"
		log.Println("ADMIN_PASSWORD not set, using default credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	return hash
}
