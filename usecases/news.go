package usecases

import (
	"context"
	"fmt"

	"github.com/Vaflel/spo-schedule/domain"
)

// NewsService отдаёт новости колледжа без кэширования
type NewsService struct {
	source NewsSource
}

func NewNewsService(source NewsSource) *NewsService {
	return &NewsService{source: source}
}

// Latest загружает свежий список новостей
func (s *NewsService) Latest(ctx context.Context) ([]domain.NewsItem, error) {
	items, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить новости: %w", err)
	}
	return items, nil
}
