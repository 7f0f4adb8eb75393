package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tidyanki/tidyanki/internal/repository"
	"github.com/tidyanki/tidyanki/internal/repository/sqlite"
	"github.com/tidyanki/tidyanki/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.DeckRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestCollection(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) seedDeck(id int64, storedName string) {
	_, err := s.db.Exec(`INSERT INTO decks (id, name) VALUES (?, ?)`, id, storedName)
	s.Require().NoError(err)
}

func (s *DeckRepositorySuite) seedCard(cardID, noteID, deckID int64, front string) {
	_, err := s.db.Exec(`INSERT INTO notes (id, guid, mid, flds) VALUES (?, ?, 1, ?)`,
		noteID, "guid", testutil.JoinFields(front, "back"))
	s.Require().NoError(err)
	_, err = s.db.Exec(`INSERT INTO cards (id, nid, did) VALUES (?, ?, ?)`, cardID, noteID, deckID)
	s.Require().NoError(err)
}

func (s *DeckRepositorySuite) TestList() {
	ctx := context.Background()
	s.seedDeck(1, "French")
	s.seedDeck(2, "French\x1fVerbs")
	s.seedCard(100, 200, 2, "aller")
	s.seedCard(101, 201, 2, "venir")

	decks, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(decks, 2)

	// Hierarchy separator rendered as ::
	s.Assert().Equal("French", decks[0].Name)
	s.Assert().Equal(0, decks[0].CardCount)
	s.Assert().Equal("French::Verbs", decks[1].Name)
	s.Assert().Equal(2, decks[1].CardCount)
}

func (s *DeckRepositorySuite) TestList_UnicaseOrdering() {
	ctx := context.Background()
	s.seedDeck(1, "zoo")
	s.seedDeck(2, "Épées")
	s.seedDeck(3, "apples")

	decks, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(decks, 3)

	// Diacritic-stripped case-insensitive ordering: apples, Épées, zoo.
	s.Assert().Equal("apples", decks[0].Name)
	s.Assert().Equal("Épées", decks[1].Name)
	s.Assert().Equal("zoo", decks[2].Name)
}

func (s *DeckRepositorySuite) TestGetByName() {
	ctx := context.Background()
	s.seedDeck(5, "Spanish\x1fNouns")
	s.seedCard(100, 200, 5, "mesa")

	deck, err := s.repo.GetByName(ctx, "Spanish::Nouns")
	s.Require().NoError(err)
	s.Assert().Equal(int64(5), deck.ID)
	s.Assert().Equal("Spanish::Nouns", deck.Name)
	s.Assert().Equal(1, deck.CardCount)
}

func (s *DeckRepositorySuite) TestGetByName_NotFound() {
	ctx := context.Background()

	_, err := s.repo.GetByName(ctx, "Missing")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
