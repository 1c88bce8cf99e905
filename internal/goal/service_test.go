package goal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
)

func TestService_Get(t *testing.T) {
	type testCase struct {
		name          string
		setupMock     func(m *goal.MockRepository)
		wantRevenue   int64
		wantCount     int
		wantPersisted bool
		wantErr       bool
	}

	tests := []testCase{
		{
			name: "Stored",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().
					GetGoal(gomock.Any(), month.Key("2025-03")).
					Return(&goal.MonthGoal{ID: "2025-03", Revenue: decimal.NewFromInt(5000), Count: 10}, nil)
			},
			wantRevenue:   5000,
			wantCount:     10,
			wantPersisted: true,
		},
		{
			name: "FallsBackToDefault",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().
					GetGoal(gomock.Any(), month.Key("2025-03")).
					Return(nil, goal.ErrNotFound)
			},
			wantRevenue:   10000,
			wantCount:     50,
			wantPersisted: false,
		},
		{
			name: "RepoError",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().
					GetGoal(gomock.Any(), month.Key("2025-03")).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := goal.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, persisted, err := goal.NewService(repo).Get(context.Background(), "2025-03")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, month.Key("2025-03"), got.ID)
			assert.True(t, decimal.NewFromInt(tt.wantRevenue).Equal(got.Revenue))
			assert.Equal(t, tt.wantCount, got.Count)
			assert.Equal(t, tt.wantPersisted, persisted)
		})
	}
}

func TestService_Save(t *testing.T) {
	type testCase struct {
		name      string
		params    goal.SaveParams
		setupMock func(m *goal.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Upserts",
			params: goal.SaveParams{Month: "2025-03", Revenue: decimal.NewFromInt(8000), Count: 40},
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().
					UpsertGoal(gomock.Any(), &goal.MonthGoal{ID: "2025-03", Revenue: decimal.NewFromInt(8000), Count: 40}).
					Return(nil)
			},
		},
		{
			name:   "ZeroGoalsAllowed",
			params: goal.SaveParams{Month: "2025-03"},
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().UpsertGoal(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "NegativeRevenue",
			params:  goal.SaveParams{Month: "2025-03", Revenue: decimal.NewFromInt(-1)},
			wantErr: goal.ErrInvalidRevenue,
		},
		{
			name:    "NegativeCount",
			params:  goal.SaveParams{Month: "2025-03", Count: -1},
			wantErr: goal.ErrInvalidCount,
		},
		{
			name:    "InvalidMonth",
			params:  goal.SaveParams{Month: "2025-3", Revenue: decimal.NewFromInt(100)},
			wantErr: month.ErrInvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := goal.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := goal.NewService(repo).Save(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Month, got.ID)
		})
	}
}

func TestDefault(t *testing.T) {
	got := goal.Default("2025-03")

	assert.Equal(t, month.Key("2025-03"), got.ID)
	assert.True(t, decimal.NewFromInt(10000).Equal(got.Revenue))
	assert.Equal(t, 50, got.Count)
}
