package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/utils"
	"gorm.io/gorm"
)

const (
	maxFeatureNameLength        = 100
	maxFeatureDescriptionLength = 500
	maxAddressLength            = 200
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s-]{7,15}$`)

// FeatureInput is one line of a package's feature list
type FeatureInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePackageInput is a manager's new package. Images[i] belongs to Features[i].
type CreatePackageInput struct {
	CompanyName   string
	PackageAmount float64
	Contact       models.ContactDetails
	Features      []FeatureInput
	Images        []*multipart.FileHeader
}

// PackageService manages the package catalogue
type PackageService struct {
	db     *gorm.DB
	images ImageService
}

// NewPackageService creates a package service. Without an image service, images are rejected
// and no image URLs are attached.
func NewPackageService(db *gorm.DB, images ImageService) *PackageService {
	return &PackageService{db: db, images: images}
}

// Create validates and stores a package owned by the manager, uploading its images first
func (s *PackageService) Create(ctx context.Context, manager Identity, in CreatePackageInput) (*models.Package, error) {
	contact, err := validatePackageInput(&in)
	if err != nil {
		return nil, err
	}
	if len(in.Images) > 0 && s.images == nil {
		return nil, StorageError("upload images", errors.New("image storage is not configured"))
	}
	for _, fh := range in.Images {
		if err := utils.ValidateImageFile(fh); err != nil {
			return nil, uploadError(err)
		}
	}

	keys := make([]string, 0, len(in.Images))
	for _, fh := range in.Images {
		key, err := s.images.UploadImage(ctx, fh)
		if err != nil {
			s.discardImages(ctx, keys)
			return nil, uploadError(err)
		}
		keys = append(keys, key)
	}

	pkg := models.Package{
		OwnerID:       manager.AccountID,
		CompanyName:   strings.TrimSpace(in.CompanyName),
		PackageAmount: in.PackageAmount,
		Contact:       contact,
	}
	for i, f := range in.Features {
		item := models.FeatureItem{
			Position:    i,
			Name:        strings.TrimSpace(f.Name),
			Description: strings.TrimSpace(f.Description),
		}
		if i < len(keys) {
			key := keys[i]
			item.ImageKey = &key
		}
		pkg.Features = append(pkg.Features, item)
	}

	if err := s.db.WithContext(ctx).Create(&pkg).Error; err != nil {
		s.discardImages(ctx, keys)
		return nil, StorageError("create package", err)
	}

	log.Printf("Package %d created by manager %d with %d features and %d images", pkg.ID, manager.AccountID, len(pkg.Features), len(keys))
	s.attachImageURLs(ctx, &pkg)
	return &pkg, nil
}

// List returns every package, newest first
func (s *PackageService) List(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if err := s.withFeatures(ctx).Order("id DESC").Find(&packages).Error; err != nil {
		return nil, StorageError("list packages", err)
	}
	for i := range packages {
		s.attachImageURLs(ctx, &packages[i])
	}
	return packages, nil
}

// ListByOwner returns the packages a manager owns, newest first
func (s *PackageService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Package, error) {
	var packages []models.Package
	if err := s.withFeatures(ctx).Where("owner_id = ?", ownerID).Order("id DESC").Find(&packages).Error; err != nil {
		return nil, StorageError("list owner packages", err)
	}
	for i := range packages {
		s.attachImageURLs(ctx, &packages[i])
	}
	return packages, nil
}

// Get returns one package with its features
func (s *PackageService) Get(ctx context.Context, id uint) (*models.Package, error) {
	if err := requireID(id, "package_id", "Package"); err != nil {
		return nil, err
	}

	var pkg models.Package
	if err := s.withFeatures(ctx).First(&pkg, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("PACKAGE_NOT_FOUND", "Package not found", "package_id")
		}
		return nil, StorageError("load package", err)
	}
	s.attachImageURLs(ctx, &pkg)
	return &pkg, nil
}

func (s *PackageService) withFeatures(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// attachImageURLs fills each feature's ImageURL. A URL that cannot be built is logged and left empty.
func (s *PackageService) attachImageURLs(ctx context.Context, pkg *models.Package) {
	if s.images == nil {
		return
	}
	for i := range pkg.Features {
		feature := &pkg.Features[i]
		if feature.ImageKey == nil || *feature.ImageKey == "" {
			continue
		}
		url, err := s.images.GetImageURL(ctx, *feature.ImageKey)
		if err != nil {
			log.Printf("Failed to build image URL for feature %d: %v", feature.ID, err)
			continue
		}
		feature.ImageURL = &url
	}
}

func (s *PackageService) discardImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.images.DeleteImage(ctx, key); err != nil {
			log.Printf("Failed to remove image %s: %v", key, err)
		}
	}
}

func validatePackageInput(in *CreatePackageInput) (models.ContactDetails, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return models.ContactDetails{}, ValidationError("VALIDATION_ERROR", "Company name is required", "company_name")
	}
	if in.PackageAmount < 0 {
		return models.ContactDetails{}, ValidationError("VALIDATION_ERROR", "Package amount must be a non-negative number", "package_amount")
	}

	contact := models.ContactDetails{
		Email:   strings.ToLower(strings.TrimSpace(in.Contact.Email)),
		Phone:   strings.TrimSpace(in.Contact.Phone),
		Address: strings.TrimSpace(in.Contact.Address),
	}
	if contact.Email == "" {
		return contact, ValidationError("VALIDATION_ERROR", "Contact email is required", "contact_details.email")
	}
	if !isEmail(contact.Email) {
		return contact, ValidationError("VALIDATION_ERROR", "Valid contact email is required", "contact_details.email")
	}
	if contact.Phone != "" && !phonePattern.MatchString(contact.Phone) {
		return contact, ValidationError("VALIDATION_ERROR", "Invalid phone number format", "contact_details.phone")
	}
	if utf8.RuneCountInString(contact.Address) > maxAddressLength {
		return contact, ValidationError("VALIDATION_ERROR", "Address must be at most 200 characters", "contact_details.address")
	}

	if len(in.Features) == 0 {
		return contact, ValidationError("VALIDATION_ERROR", "At least one feature is required", "features")
	}
	for _, f := range in.Features {
		if n := utf8.RuneCountInString(strings.TrimSpace(f.Name)); n < 1 || n > maxFeatureNameLength {
			return contact, ValidationError("VALIDATION_ERROR", "Feature name must be between 1 and 100 characters", "features")
		}
		if n := utf8.RuneCountInString(strings.TrimSpace(f.Description)); n < 1 || n > maxFeatureDescriptionLength {
			return contact, ValidationError("VALIDATION_ERROR", "Feature description must be between 1 and 500 characters", "features")
		}
	}

	if len(in.Images) > utils.MaxImagesPerPackage {
		return contact, ValidationError("TOO_MANY_IMAGES", "A package can have at most 10 images", "images")
	}
	if len(in.Images) > len(in.Features) {
		return contact, ValidationError("TOO_MANY_IMAGES", "Number of images cannot exceed number of features", "images")
	}
	return contact, nil
}

// uploadError keeps file validation failures as client errors and treats the rest as storage failures
func uploadError(err error) error {
	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		return ValidationError(uploadErr.Code, uploadErr.Message, "images")
	}
	return StorageError("upload image", err)
}
