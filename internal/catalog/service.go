package catalog

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage uploads item images and returns a public URL.
type Storage interface {
	Upload(ctx context.Context, key string, file multipart.File) (string, error)
}

type Service struct {
	repo    Repository
	storage Storage
}

func NewService(repo Repository, storage Storage) *Service {
	return &Service{repo: repo, storage: storage}
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string, sortOrder int) (*Category, error) {
	if name == "" {
		return nil, errors.New("category name is required")
	}
	cat := &Category{Name: name, SortOrder: sortOrder}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) ListMenuItems(ctx context.Context) ([]*MenuItem, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) GetMenuItem(ctx context.Context, id string) (*MenuItem, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) CreateMenuItem(ctx context.Context, item *MenuItem) error {
	if item.Name == "" {
		return errors.New("item name is required")
	}
	if item.Price < 0 {
		return errors.New("item price must not be negative")
	}
	if item.PrepTimeMinutes <= 0 {
		item.PrepTimeMinutes = 10
	}
	if item.Station == "" {
		item.Station = "expo"
	}
	item.Available = true
	return s.repo.CreateItem(ctx, item)
}

func (s *Service) UpdateMenuItem(ctx context.Context, item *MenuItem) error {
	if item.Price < 0 {
		return errors.New("item price must not be negative")
	}
	return s.repo.UpdateItem(ctx, item)
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// ToggleAvailability flips the 86 flag on an item.
func (s *Service) ToggleAvailability(ctx context.Context, id string) (*MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Available = !item.Available
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListModifiers(ctx context.Context, itemID string) ([]*Modifier, error) {
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListModifiers(ctx, itemID)
}

func (s *Service) AddModifier(ctx context.Context, itemID, name string, priceDelta float64) (*Modifier, error) {
	if name == "" {
		return nil, errors.New("modifier name is required")
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	mod := &Modifier{ItemID: itemID, Name: name, PriceDelta: priceDelta}
	if err := s.repo.CreateModifier(ctx, mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// UploadItemImage stores an image for a menu item and saves the
// resulting public URL on the item.
func (s *Service) UploadItemImage(
	ctx context.Context,
	itemID string,
	file multipart.File,
	filename string,
) (string, error) {

	if s.storage == nil {
		return "", errors.New("image storage is not configured")
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", errors.New("invalid file")
	}

	key := fmt.Sprintf("items/%s/%s%s", itemID, uuid.New().String(), ext)

	url, err := s.storage.Upload(ctx, key, file)
	if err != nil {
		return "", err
	}

	item.ImageURL = url
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return "", err
	}

	return url, nil
}
