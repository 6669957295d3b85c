package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"amora/internal/matching/models"
	"amora/internal/matching/ranker"
	"amora/internal/matching/scorer"
	"amora/internal/profile"
	id "amora/pkg/domain"
	"amora/pkg/testutil"
)

type MatchingHandlerSuite struct {
	suite.Suite
	router   *chi.Mux
	profiles *profile.InMemory
	user     id.UserID
}

func (s *MatchingHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.profiles = profile.NewInMemory()
	s.user = id.UserID(uuid.New())

	compat := scorer.New(scorer.UnknownDistance{})
	h := New(s.profiles, compat, ranker.New(compat), logger, nil)

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func TestMatchingHandlerSuite(t *testing.T) {
	suite.Run(t, new(MatchingHandlerSuite))
}

func (s *MatchingHandlerSuite) seedProfile(age int, interests ...string) id.UserID {
	userID := id.UserID(uuid.New())
	s.Require().NoError(s.profiles.Put(&models.Profile{
		ID:        userID,
		Age:       age,
		Location:  "Lisbon",
		Interests: interests,
		Version:   1,
	}))
	return userID
}

func (s *MatchingHandlerSuite) seedUser(age int, interests ...string) {
	s.Require().NoError(s.profiles.Put(&models.Profile{
		ID:        s.user,
		Age:       age,
		Location:  "Lisbon",
		Interests: interests,
		Version:   1,
	}))
}

// TestRecommendations covers the ranked listing endpoint.
func (s *MatchingHandlerSuite) TestRecommendations() {
	s.Run("requires authentication", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/recommendations")
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("404 when the caller has no profile", func() {
		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/recommendations"), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusNotFound, rr.Code)
	})

	s.Run("returns candidates ranked by score", func() {
		s.seedUser(30, "hiking", "cooking", "jazz")
		strong := s.seedProfile(31, "hiking", "cooking", "jazz")
		weak := s.seedProfile(55, "philately")

		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/recommendations"), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var body struct {
			Recommendations []struct {
				ProfileID string `json:"profile_id"`
				Score     struct {
					Overall int `json:"overall"`
				} `json:"score"`
			} `json:"recommendations"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		s.Require().Len(body.Recommendations, 2)
		s.Equal(strong.String(), body.Recommendations[0].ProfileID)
		s.Equal(weak.String(), body.Recommendations[1].ProfileID)
		s.Greater(body.Recommendations[0].Score.Overall, body.Recommendations[1].Score.Overall)
	})

	s.Run("honors the limit parameter", func() {
		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/recommendations?limit=1"), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var body struct {
			Recommendations []json.RawMessage `json:"recommendations"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		s.Len(body.Recommendations, 1)
	})

	s.Run("rejects a non-positive limit", func() {
		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/recommendations?limit=0"), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("empty pool yields an empty list, not an error", func() {
		lonely := s.seedProfile(40, "chess")
		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/recommendations?limit=50"), lonely.String())
		// Narrow the pool to nothing via an impossible age preference.
		s.Require().NoError(s.profiles.Put(&models.Profile{
			ID:          lonely,
			Age:         40,
			Interests:   []string{"chess"},
			Preferences: &models.Preferences{AgeRange: &models.AgeRange{Min: 99, Max: 99}},
			Version:     2,
		}))
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var body struct {
			Recommendations []json.RawMessage `json:"recommendations"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		s.Empty(body.Recommendations)
	})
}

// TestScore covers the on-demand pair scoring endpoint.
func (s *MatchingHandlerSuite) TestScore() {
	s.seedUser(30, "hiking")
	other := s.seedProfile(32, "hiking")

	s.Run("returns the full score payload", func() {
		req := testutil.WithUserID(testutil.NewJSONRequest(s.T(), http.MethodPost, "/score", map[string]string{
			"user_a": s.user.String(),
			"user_b": other.String(),
		}), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var score models.CompatibilityScore
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &score))
		s.GreaterOrEqual(score.Overall, 0)
		s.LessOrEqual(score.Overall, 100)
		s.NotEmpty(score.Reasons)
	})

	s.Run("rejects malformed ids", func() {
		req := testutil.WithUserID(testutil.NewJSONRequest(s.T(), http.MethodPost, "/score", map[string]string{
			"user_a": "not-a-uuid",
			"user_b": other.String(),
		}), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("404 for an unknown profile", func() {
		req := testutil.WithUserID(testutil.NewJSONRequest(s.T(), http.MethodPost, "/score", map[string]string{
			"user_a": s.user.String(),
			"user_b": uuid.NewString(),
		}), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusNotFound, rr.Code)
	})

	s.Run("rejects a malformed body", func() {
		req := testutil.WithUserID(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/score", "{"), s.user.String())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}
