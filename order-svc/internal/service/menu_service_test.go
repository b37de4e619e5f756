package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"tablehouse/order-svc/internal/domain"
	"tablehouse/order-svc/internal/mocks"
	"tablehouse/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMenuService_Create(t *testing.T) {
	tests := []struct {
		name         string
		item         domain.MenuItem
		prepareMocks func(repo *mocks.MenuRepository)
		expectedErr  error
	}{
		{
			name: "success",
			item: domain.MenuItem{Name: "  Margherita ", Category: "Pizza", Price: 1299},
			prepareMocks: func(repo *mocks.MenuRepository) {
				repo.On("CreateMenuItem", mock.Anything, mock.MatchedBy(func(item *domain.MenuItem) bool {
					return item.Name == "Margherita"
				})).Return(nil).Once()
			},
		},
		{
			name:         "missing_name",
			item:         domain.MenuItem{Category: "Pizza", Price: 1299},
			prepareMocks: func(repo *mocks.MenuRepository) {},
			expectedErr:  service.ErrValidation,
		},
		{
			name:         "negative_price",
			item:         domain.MenuItem{Name: "Refund", Category: "Misc", Price: -1},
			prepareMocks: func(repo *mocks.MenuRepository) {},
			expectedErr:  service.ErrValidation,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewMenuRepository(t)
			testCase.prepareMocks(repo)
			svc := service.NewMenuService(repo)

			item := testCase.item
			err := svc.Create(context.Background(), &item)
			if testCase.expectedErr != nil {
				assert.ErrorIs(t, err, testCase.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMenuService_GetHidesInactive(t *testing.T) {
	repo := mocks.NewMenuRepository(t)
	repo.On("GetMenuItem", mock.Anything, 3).Return(&domain.MenuItem{ID: 3, Name: "Old", Active: false}, nil)
	repo.On("GetMenuItem", mock.Anything, 4).Return(nil, sql.ErrNoRows)
	svc := service.NewMenuService(repo)

	_, err := svc.Get(context.Background(), 3, false)
	assert.ErrorIs(t, err, service.ErrNotFound)

	item, err := svc.Get(context.Background(), 3, true)
	assert.NoError(t, err)
	assert.Equal(t, "Old", item.Name)

	_, err = svc.Get(context.Background(), 4, true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMenuService_ListNeverNil(t *testing.T) {
	repo := mocks.NewMenuRepository(t)
	repo.On("ListMenuItems", mock.Anything, domain.MenuFilter{}).Return(nil, nil).Once()
	repo.On("ListCategories", mock.Anything).Return(nil, nil).Once()
	svc := service.NewMenuService(repo)

	items, err := svc.List(context.Background(), domain.MenuFilter{})
	assert.NoError(t, err)
	assert.NotNil(t, items)

	categories, err := svc.Categories(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, categories)
}

func TestMenuService_UpdateUnknown(t *testing.T) {
	repo := mocks.NewMenuRepository(t)
	repo.On("UpdateMenuItem", mock.Anything, mock.Anything).Return(sql.ErrNoRows).Once()
	svc := service.NewMenuService(repo)

	err := svc.Update(context.Background(), &domain.MenuItem{ID: 8, Name: "Soup", Category: "Starters", Price: 500})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMenuService_RowCountedWrites(t *testing.T) {
	tests := []struct {
		name        string
		rows        int64
		repoErr     error
		expectedErr error
	}{
		{name: "applied", rows: 1},
		{name: "unknown_id", rows: 0, expectedErr: service.ErrNotFound},
		{name: "storage_error", repoErr: errors.New("db down")},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewMenuRepository(t)
			repo.On("SetMenuItemActive", mock.Anything, 5, false).Return(testCase.rows, testCase.repoErr).Once()
			repo.On("UpdateMenuItemImage", mock.Anything, 5, "/uploads/x.png").Return(testCase.rows, testCase.repoErr).Once()
			repo.On("DeleteMenuItem", mock.Anything, 5).Return(testCase.rows, testCase.repoErr).Once()
			svc := service.NewMenuService(repo)
			ctx := context.Background()

			for _, err := range []error{
				svc.SetActive(ctx, 5, false),
				svc.UpdateImage(ctx, 5, "/uploads/x.png"),
				svc.Delete(ctx, 5),
			} {
				switch {
				case testCase.repoErr != nil:
					assert.ErrorIs(t, err, testCase.repoErr)
				case testCase.expectedErr != nil:
					assert.ErrorIs(t, err, testCase.expectedErr)
				default:
					assert.NoError(t, err)
				}
			}
		})
	}
}
