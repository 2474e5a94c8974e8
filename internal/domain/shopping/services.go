package shopping

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type Service struct {
	repository Repository
	header     string
}

func NewService(repository Repository) *Service {
	return &Service{
		repository: repository,
		header:     config.ShoppingListHeader,
	}
}

// Aggregate returns the deduplicated ingredient totals of the user's cart.
func (s *Service) Aggregate(ctx context.Context, userID int64) ([]models.ShoppingLine, error) {
	lines, err := s.repository.Aggregate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return lines, nil
}

// Render writes the header followed by one "• name: amount unit" line per
// ingredient. Lines are separated by a single newline with none trailing.
func (s *Service) Render(w io.Writer, lines []models.ShoppingLine) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(s.header); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(bw, "\n• %s: %d %s", line.Name, line.Total, line.MeasurementUnit); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Download builds the downloadable shopping list for the user.
func (s *Service) Download(ctx context.Context, userID int64) ([]byte, error) {
	lines, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.Render(&buf, lines); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}

	slog.Info("Shopping list rendered",
		slog.Int64("user_id", userID),
		slog.Int("ingredients", len(lines)))
	return buf.Bytes(), nil
}
