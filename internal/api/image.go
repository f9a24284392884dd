package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipevault/backend/internal/middleware"
	"github.com/pageza/recipevault/backend/internal/service"
)

// ImageHandler accepts recipe image uploads and stores them in S3.
type ImageHandler struct {
	imageService service.IImageService
	authService  service.IAuthService
}

func NewImageHandler(imageService service.IImageService, authService service.IAuthService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		authService:  authService,
	}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	images := router.Group("/images")
	images.Use(middleware.AuthMiddleware(h.authService))
	{
		images.POST("", h.UploadImage)
		images.GET("/url", h.GetImageURL)
	}
}

func (h *ImageHandler) UploadImage(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please attach an image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}

	url, err := h.imageService.UploadRecipeImage(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image_url": url})
}

// GetImageURL hands out a presigned URL for a stored image key.
func (h *ImageHandler) GetImageURL(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	url, err := h.imageService.GetImageURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
