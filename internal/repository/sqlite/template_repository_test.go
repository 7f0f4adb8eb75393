package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tidyanki/tidyanki/internal/repository"
	"github.com/tidyanki/tidyanki/internal/repository/sqlite"
	"github.com/tidyanki/tidyanki/internal/testutil"
)

// templateConfig builds the protobuf blob the templates.config column holds:
// three length-delimited string fields (qfmt, afmt, browser qfmt). Lengths
// are real varints, so values over 127 bytes encode as multiple bytes.
func templateConfig(front, back, browser string) []byte {
	var out []byte
	for i, s := range []string{front, back, browser} {
		out = append(out, byte((i+1)<<3|2))
		out = binary.AppendUvarint(out, uint64(len(s)))
		out = append(out, s...)
	}
	return out
}

type TemplateRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.TemplateRepository
}

func (s *TemplateRepositorySuite) SetupTest() {
	s.db = testutil.NewTestCollection(s.T())
	s.repo = sqlite.NewTemplateRepository(s.db)
}

func (s *TemplateRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *TemplateRepositorySuite) seed() {
	_, err := s.db.Exec(`INSERT INTO notetypes (id, name) VALUES (1, 'Basic')`)
	s.Require().NoError(err)
	_, err = s.db.Exec(`INSERT INTO templates (ntid, ord, name, config) VALUES (1, 0, 'Card 1', ?)`,
		templateConfig("{{Front}}", "{{FrontSide}}<hr>{{Back}}", "{{Front}}"))
	s.Require().NoError(err)
	_, err = s.db.Exec(`INSERT INTO templates (ntid, ord, name, config) VALUES (1, 1, 'Card 2', ?)`,
		templateConfig("{{Back}}", "{{Front}}", ""))
	s.Require().NoError(err)
}

func (s *TemplateRepositorySuite) TestList() {
	ctx := context.Background()
	s.seed()

	templates, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(templates, 2)
	s.Assert().Equal("Card 1", templates[0].Name)
	s.Assert().Equal("Basic", templates[0].NoteTypeName)
	s.Assert().Equal(int64(1), templates[0].NoteTypeID)
	s.Assert().Equal("Card 2", templates[1].Name)
}

func (s *TemplateRepositorySuite) TestContent() {
	ctx := context.Background()
	s.seed()

	content, err := s.repo.Content(ctx, "Card 1", "Basic")
	s.Require().NoError(err)
	s.Assert().Equal("{{Front}}", content.FrontHTML)
	s.Assert().Equal("{{FrontSide}}<hr>{{Back}}", content.BackHTML)
	s.Assert().Equal("{{Front}}", content.BrowserQuestion)
}

func (s *TemplateRepositorySuite) TestContent_LongTemplate() {
	ctx := context.Background()
	s.seed()

	// Over 127 bytes per field, so the length prefixes need two varint bytes.
	front := "{{Front}}" + strings.Repeat("<div class='hint'>{{hint:Extra}}</div>", 10)
	back := "{{FrontSide}}<hr id=answer>" + strings.Repeat("{{Back}} ", 40)
	_, err := s.db.Exec(`INSERT INTO templates (ntid, ord, name, config) VALUES (1, 2, 'Card 3', ?)`,
		templateConfig(front, back, ""))
	s.Require().NoError(err)

	content, err := s.repo.Content(ctx, "Card 3", "Basic")
	s.Require().NoError(err)
	s.Assert().Equal(front, content.FrontHTML)
	s.Assert().Equal(back, content.BackHTML)
	s.Assert().Empty(content.BrowserQuestion)
}

func (s *TemplateRepositorySuite) TestContent_NotFound() {
	ctx := context.Background()
	s.seed()

	_, err := s.repo.Content(ctx, "Card 9", "Basic")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func TestTemplateRepositorySuite(t *testing.T) {
	suite.Run(t, new(TemplateRepositorySuite))
}
