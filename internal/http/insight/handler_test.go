package insight_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pulse/internal/call"
	"github.com/MrJamesThe3rd/pulse/internal/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	insightHandler "github.com/MrJamesThe3rd/pulse/internal/http/insight"
	"github.com/MrJamesThe3rd/pulse/internal/insight"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

type recordingGenerator struct {
	sales chan []*sale.Sale
	goals chan goal.MonthGoal
}

func (g *recordingGenerator) Generate(_ context.Context, sales []*sale.Sale, mg goal.MonthGoal) []insight.Insight {
	g.sales <- sales
	g.goals <- mg

	return []insight.Insight{{Title: "Bom ritmo", Message: "Continue.", Type: insight.TypePositive}}
}

type stateBody struct {
	Status   string `json:"status"`
	Month    string `json:"month"`
	Insights []struct {
		Title string `json:"title"`
	} `json:"insights"`
}

func TestHandler_StartAndPoll(t *testing.T) {
	ctrl := gomock.NewController(t)

	saleRepo := sale.NewMockRepository(ctrl)
	saleRepo.EXPECT().ListSales(gomock.Any(), gomock.Any()).Return([]*sale.Sale{
		{ID: uuid.New(), Amount: decimal.NewFromInt(100), Date: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), Status: sale.StatusPaid},
		{ID: uuid.New(), Amount: decimal.NewFromInt(900), Date: time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC), Status: sale.StatusPaid},
	}, nil)

	goalRepo := goal.NewMockRepository(ctrl)
	goalRepo.EXPECT().ListGoals(gomock.Any()).Return(nil, nil)

	callRepo := call.NewMockRepository(ctrl)
	callRepo.EXPECT().ListCalls(gomock.Any()).Return(nil, nil)

	dash := dashboard.NewService(sale.NewService(saleRepo), goal.NewService(goalRepo), call.NewService(callRepo), time.UTC)
	gen := &recordingGenerator{sales: make(chan []*sale.Sale, 1), goals: make(chan goal.MonthGoal, 1)}
	task := insight.NewTask(gen, time.Minute)

	r := chi.NewRouter()
	r.Route("/insights", insightHandler.NewHandler(dash, task).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/insights/?month=2025-06", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case sales := <-gen.sales:
		assert.Len(t, sales, 1, "only the selected month is sent")
		assert.Equal(t, goal.Default("2025-06"), <-gen.goals)
	case <-time.After(2 * time.Second):
		t.Fatal("generator was not called")
	}

	require.Eventually(t, func() bool {
		return task.State().Status == insight.StatusSettled
	}, 2*time.Second, 10*time.Millisecond)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got stateBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "settled", got.Status)
	assert.Equal(t, "2025-06", got.Month)
	require.Len(t, got.Insights, 1)
	assert.Equal(t, "Bom ritmo", got.Insights[0].Title)
}

func TestHandler_IdleState(t *testing.T) {
	task := insight.NewTask(&recordingGenerator{}, time.Minute)

	r := chi.NewRouter()
	r.Route("/insights", insightHandler.NewHandler(nil, task).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"idle","insights":[]}`, rec.Body.String())
}

func TestHandler_InvalidMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	dash := dashboard.NewService(
		sale.NewService(sale.NewMockRepository(ctrl)),
		goal.NewService(goal.NewMockRepository(ctrl)),
		call.NewService(call.NewMockRepository(ctrl)),
		time.UTC,
	)

	r := chi.NewRouter()
	r.Route("/insights", insightHandler.NewHandler(dash, insight.NewTask(&recordingGenerator{}, time.Minute)).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/insights/?month=junho", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
