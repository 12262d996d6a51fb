package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "imagekingbot/core/telegram/helpers"
	"imagekingbot/internal/models"
)

// StatsSource provides aggregate service counters.
type StatsSource interface {
	Load(ctx context.Context) (*models.Stats, error)
}

// StatsHandler reports service counters. Wired as an admin-only command.
func StatsHandler(src StatsSource) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		stats, err := src.Load(ctx)
		if err != nil {
			return err
		}
		text := fmt.Sprintf(
			"👤 Users: %d (verified: %d)\n🎨 Generations: %d\n🖼 Gallery images: %d",
			stats.Users, stats.VerifiedUsers, stats.Generations, stats.GalleryImages,
		)
		return tghelpers.SendText(c, text)
	}
}
