package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "imagekingbot/core/telegram/helpers"
)

// Gallery sends the most recent saved images as an album, falling back to
// individual photos when the album send fails.
func (f *Flow) Gallery(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	entries, err := f.gallery.Recent(ctx, uid, f.albumSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return tghelpers.SendText(c, "📭 Your gallery is empty.")
	}

	album := make(tele.Album, 0, len(entries))
	for _, entry := range entries {
		album = append(album, &tele.Photo{File: tele.FromDisk(entry.ImagePath)})
	}
	if err := c.SendAlbum(album); err == nil {
		return nil
	}

	for _, entry := range entries {
		if err := c.Send(&tele.Photo{File: tele.FromDisk(entry.ImagePath)}); err != nil {
			return err
		}
	}
	return nil
}
