package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/models"
)

// templateService stores named report configurations.
type templateService struct {
	db *gorm.DB
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(db *gorm.DB) TemplateServicer {
	return &templateService{db: db}
}

// ListTemplates returns a user's templates, oldest first.
func (s *templateService) ListTemplates(userID string) ([]models.ReportTemplate, error) {
	var templates []models.ReportTemplate
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// CreateTemplate saves a report configuration under name.
func (s *templateService) CreateTemplate(userID, name string, criteria ledger.Criteria, views models.ReportViews) (*models.ReportTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "template name is required")
	}

	template := &models.ReportTemplate{
		UserID:   userID,
		Name:     name,
		Criteria: criteria,
		Views:    views,
	}
	if err := s.db.Create(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// DeleteTemplate removes one of the user's templates.
func (s *templateService) DeleteTemplate(userID, templateID string) error {
	res := s.db.Where("id = ? AND user_id = ?", templateID, userID).Delete(&models.ReportTemplate{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTemplateNotFound
	}
	return nil
}
