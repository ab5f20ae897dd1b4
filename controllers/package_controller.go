package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
)

// ListPackages handles GET /api/v1/packages - lists every package
func ListPackages(c *gin.Context) {
	packages, err := services.NewPackageService(config.GetDB(), services.GetImageService()).List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, packages)
}

// GetPackage handles GET /api/v1/packages/:id - package detail with features
func GetPackage(c *gin.Context) {
	id, ok := idParam(c, "id", "package_id", "Package")
	if !ok {
		return
	}

	pkg, err := services.NewPackageService(config.GetDB(), services.GetImageService()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, pkg)
}

// CreatePackage handles POST /api/v1/packages - a manager adds a package.
// The body is multipart: company_name, package_amount, contact_details (JSON),
// features (JSON array) and up to 10 images, where image i illustrates feature i.
func CreatePackage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, services.ValidationError("INVALID_REQUEST", "Request must be multipart/form-data", ""))
		return
	}

	input, err := packageInputFromForm(form.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	input.Images = form.File["images"]

	pkg, err := services.NewPackageService(config.GetDB(), services.GetImageService()).Create(c.Request.Context(), identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, pkg)
}

func packageInputFromForm(values map[string][]string) (services.CreatePackageInput, error) {
	first := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	var input services.CreatePackageInput
	input.CompanyName = first("company_name")

	amount, err := strconv.ParseFloat(first("package_amount"), 64)
	if err != nil {
		return input, services.ValidationError("VALIDATION_ERROR", "Package amount must be a number", "package_amount")
	}
	input.PackageAmount = amount

	var contact models.ContactDetails
	if err := json.Unmarshal([]byte(first("contact_details")), &contact); err != nil {
		return input, services.ValidationError("VALIDATION_ERROR", "Contact details must be a JSON object", "contact_details")
	}
	input.Contact = contact

	if err := json.Unmarshal([]byte(first("features")), &input.Features); err != nil {
		return input, services.ValidationError("VALIDATION_ERROR", "Features must be a JSON array", "features")
	}

	return input, nil
}
