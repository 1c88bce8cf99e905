package goal_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	goalHandler "github.com/MrJamesThe3rd/pulse/internal/http/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
)

type goalBody struct {
	Month     string          `json:"month"`
	Revenue   decimal.Decimal `json:"revenue"`
	Count     int             `json:"count"`
	Persisted bool            `json:"persisted"`
}

func newRouter(t *testing.T) (http.Handler, *goal.MockRepository) {
	t.Helper()

	repo := goal.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Route("/goals", goalHandler.NewHandler(goal.NewService(repo)).Routes)

	return r, repo
}

func TestHandler_Get(t *testing.T) {
	t.Run("Falls back to default", func(t *testing.T) {
		router, repo := newRouter(t)
		repo.EXPECT().GetGoal(gomock.Any(), month.Key("2025-07")).Return(nil, goal.ErrNotFound)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goals/2025-07", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var got goalBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "2025-07", got.Month)
		assert.True(t, decimal.NewFromInt(10000).Equal(got.Revenue))
		assert.Equal(t, 50, got.Count)
		assert.False(t, got.Persisted)
	})

	t.Run("Saved goal", func(t *testing.T) {
		router, repo := newRouter(t)
		repo.EXPECT().GetGoal(gomock.Any(), month.Key("2025-06")).
			Return(&goal.MonthGoal{ID: "2025-06", Revenue: decimal.NewFromInt(20000), Count: 80}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goals/2025-06", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var got goalBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, 80, got.Count)
		assert.True(t, got.Persisted)
	})

	t.Run("Invalid month", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goals/june", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Save(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		body      string
		setupMock func(m *goal.MockRepository)
		wantCode  int
	}{
		{
			name: "Upserts",
			path: "/goals/2025-06",
			body: `{"revenue":"15000","count":60}`,
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().UpsertGoal(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, g *goal.MonthGoal) error {
					assert.Equal(t, month.Key("2025-06"), g.ID)
					assert.Equal(t, 60, g.Count)

					return nil
				})
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "Negative count",
			path:      "/goals/2025-06",
			body:      `{"revenue":"15000","count":-2}`,
			setupMock: func(_ *goal.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "Invalid month",
			path:      "/goals/2025-13",
			body:      `{"revenue":"15000","count":60}`,
			setupMock: func(_ *goal.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)
			tt.setupMock(repo)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
