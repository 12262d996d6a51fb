package bot

import (
	tele "gopkg.in/telebot.v4"

	"imagekingbot/core/telegram/keyboard"
	"imagekingbot/internal/models"
)

// DimensionKeyboard offers every supported SDXL size, three buttons per row.
func DimensionKeyboard() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(models.SDXLDimensions))
	for _, d := range models.SDXLDimensions {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   d.String(),
			Unique: cbDimension,
			Data:   d.String(),
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 3)
}

// ActionKeyboard offers the after-image choices.
func ActionKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "edit", Unique: cbAction, Data: actionEdit},
			{Text: "save gallery", Unique: cbAction, Data: actionSave},
		},
		[]keyboard.InlineBtn{
			{Text: "no gallery", Unique: cbAction, Data: actionNoSave},
			{Text: "Generate Again", Unique: cbAction, Data: actionRegen},
		},
	)
}
