package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tidyanki/tidyanki/internal/logger"
	"github.com/tidyanki/tidyanki/internal/models"
	"github.com/tidyanki/tidyanki/internal/repository"
)

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new TemplateRepository implementation
func NewTemplateRepository(db *sql.DB) repository.TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) List(ctx context.Context) ([]models.Template, error) {
	log := logger.FromContext(ctx).WithPrefix("template_repo")
	log.Debug("listing templates")

	rows, err := r.db.QueryContext(ctx, `
SELECT t.name AS template_name,
       nt.name AS notetype_name,
       t.ntid AS notetype_id
FROM templates t
JOIN notetypes nt ON t.ntid = nt.id
ORDER BY nt.name, t.ord
`)
	if err != nil {
		log.Error("failed to list templates: %v", err)
		return nil, err
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.Name, &t.NoteTypeName, &t.NoteTypeID); err != nil {
			log.Error("failed to scan template row: %v", err)
			return nil, err
		}
		templates = append(templates, t)
	}
	log.Debug("found %d templates", len(templates))
	return templates, rows.Err()
}

func (r *templateRepository) Content(ctx context.Context, templateName, noteTypeName string) (*models.TemplateContent, error) {
	log := logger.FromContext(ctx).WithPrefix("template_repo")
	log.Debug("loading template content: template=%s, notetype=%s", templateName, noteTypeName)

	var name, ntName string
	var config []byte
	err := r.db.QueryRowContext(ctx, `
SELECT t.name AS template_name,
       nt.name AS notetype_name,
       t.config
FROM templates t
JOIN notetypes nt ON t.ntid = nt.id
WHERE t.name = ? AND nt.name = ?
`, templateName, noteTypeName).Scan(&name, &ntName, &config)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("template not found: %s/%s", noteTypeName, templateName)
			return nil, err
		}
		log.Error("failed to load template content: %v", err)
		return nil, err
	}

	front, back, browser := decodeTemplateConfig(config)
	return &models.TemplateContent{
		Name:            name,
		NoteTypeName:    ntName,
		FrontHTML:       front,
		BackHTML:        back,
		BrowserQuestion: browser,
	}, nil
}
