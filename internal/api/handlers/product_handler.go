package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/storage"
	"github.com/dislogroup/salesflow/internal/utils"
)

type ProductHandler struct {
	products services.ProductService
	uploader storage.Uploader
}

func NewProductHandler(products services.ProductService, uploader storage.Uploader) *ProductHandler {
	return &ProductHandler{products: products, uploader: uploader}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in models.Product
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProductHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.products.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "ProductHandler.Get")
	if !ok {
		return
	}

	row, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *ProductHandler) List(c *gin.Context) {
	rows, err := h.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "ProductHandler.Update")
	if !ok {
		return
	}

	var in models.Product
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProductHandler.Update", "corps JSON invalide", err))
		return
	}

	row, err := h.products.Update(c.Request.Context(), id, &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "ProductHandler.Delete")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	rows, err := h.products.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var in models.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProductHandler.CreateCategory", "corps JSON invalide", err))
		return
	}

	row, err := h.products.CreateCategory(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadImage stores the product photo and records its public URL.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	const op = "ProductHandler.UploadImage"

	id, ok := pathID(c, op)
	if !ok {
		return
	}

	if h.uploader == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "stockage d'images non configure", nil))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "champ multipart 'file' manquant", err))
		return
	}
	if fh.Size <= 0 || fh.Size > 5<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "fichier trop volumineux (max 5MB)", nil))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := imageExts[ext]
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "format d'image non supporte", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	objectName := "produits/" + uuid.NewString() + ext
	url, err := h.uploader.Upload(c.Request.Context(), objectName, contentType, file)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to store image", err))
		return
	}

	if err := h.products.SetImageURL(c.Request.Context(), id, url); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
