package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/tidyanki/tidyanki/internal/errors"
	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

// TemplateService handles card template inspection
type TemplateService interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
	TemplateContent(ctx context.Context, templateName, noteTypeName string) (*models.TemplateContent, error)
}

type templateService struct {
	templates repository.TemplateRepository
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templates repository.TemplateRepository) TemplateService {
	return &templateService{templates: templates}
}

func (s *templateService) ListTemplates(ctx context.Context) ([]models.Template, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing templates")

	templates, err := s.templates.List(ctx)
	if err != nil {
		log.Error("failed to list templates: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return templates, nil
}

func (s *templateService) TemplateContent(ctx context.Context, templateName, noteTypeName string) (*models.TemplateContent, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading template content: template=%s, note_type=%s", templateName, noteTypeName)

	if templateName == "" {
		return nil, errors.NewValidationError("template", "name must not be empty")
	}

	content, err := s.templates.Content(ctx, templateName, noteTypeName)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("template", templateName)
		}
		log.Error("failed to load template content: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return content, nil
}
