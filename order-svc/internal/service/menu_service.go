package service

import (
	"context"
	"database/sql"
	"errors"

	"tablehouse/order-svc/internal/domain"
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	return s.repo.CreateMenuItem(ctx, item)
}

func (s *MenuService) List(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	items, err := s.repo.ListMenuItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// Get hides inactive items unless includeInactive is set.
func (s *MenuService) Get(ctx context.Context, id int, includeInactive bool) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("menu item", id)
	}
	if err != nil {
		return nil, err
	}
	if !item.Active && !includeInactive {
		return nil, notFound("menu item", id)
	}
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, item *domain.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	err := s.repo.UpdateMenuItem(ctx, item)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("menu item", item.ID)
	}
	return err
}

func (s *MenuService) SetActive(ctx context.Context, id int, active bool) error {
	rows, err := s.repo.SetMenuItemActive(ctx, id, active)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound("menu item", id)
	}
	return nil
}

func (s *MenuService) UpdateImage(ctx context.Context, id int, imageURL string) error {
	rows, err := s.repo.UpdateMenuItemImage(ctx, id, imageURL)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound("menu item", id)
	}
	return nil
}

func (s *MenuService) Delete(ctx context.Context, id int) error {
	rows, err := s.repo.DeleteMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound("menu item", id)
	}
	return nil
}
