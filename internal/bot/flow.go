package bot

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"imagekingbot/core/telegram/callbacks"
	"imagekingbot/core/telegram/format"
	tghelpers "imagekingbot/core/telegram/helpers"
	"imagekingbot/core/telegram/middleware"
	"imagekingbot/core/telegram/state"
	"imagekingbot/internal/models"
	"imagekingbot/internal/services"
)

const defaultAlbumSize = 5

// Flow drives the per-user conversation: registration, size selection,
// generation, and after-image actions.
type Flow struct {
	fsm          state.Manager
	registration *services.Registration
	generation   *services.Generation
	gallery      *services.Gallery
	albumSize    int
}

// NewFlow wires the conversation handlers.
func NewFlow(fsm state.Manager, registration *services.Registration, generation *services.Generation, gallery *services.Gallery, albumSize int) *Flow {
	if albumSize <= 0 {
		albumSize = defaultAlbumSize
	}
	return &Flow{
		fsm:          fsm,
		registration: registration,
		generation:   generation,
		gallery:      gallery,
		albumSize:    albumSize,
	}
}

// RegisterStates binds every FSM state to its handler.
func (f *Flow) RegisterStates() {
	state.RegisterHandler(StateAskName, f.handleAskName)
	state.RegisterHandler(StateAskPhone, f.handleAskPhone)
	state.RegisterHandler(StateAwaitOTP, f.handleAwaitOTP)
	state.RegisterHandler(StateChooseSize, f.handleChooseSizeText)
	state.RegisterHandler(StateAwaitPrompt, f.handleAwaitPrompt)
	state.RegisterHandler(StateEditPrompt, f.handleEditPrompt)
	state.RegisterHandler(StateRegenPrompt, f.handleRegenPrompt)
}

// Start begins or restarts the conversation. Verified users skip registration
// and go straight to dimension selection.
func (f *Flow) Start(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	f.fsm.Clear(uid)

	user, err := tghelpers.CurrentUser[*models.User](ctx, f.registration, uid)
	if err != nil {
		return err
	}
	if user.Verified() {
		f.fsm.SetState(uid, StateChooseSize)
		return tghelpers.SendMD(c, fmt.Sprintf("👋 Welcome back, *%s*! Choose image dimensions:", format.EscapeMD(user.Name)), DimensionKeyboard())
	}

	f.fsm.SetState(uid, StateAskName)
	return tghelpers.SendMD(c, "👋 Welcome! What's your *name*?")
}

// Cancel aborts the conversation from any state.
func (f *Flow) Cancel(c tele.Context) error {
	f.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, "Cancelled. You can begin again with /start.")
}

func (f *Flow) handleAskName(c tele.Context) error {
	uid := c.Sender().ID
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return tghelpers.SendMD(c, "👋 Welcome! What's your *name*?")
	}
	f.fsm.SetTemp(uid, tempName, name)
	f.fsm.SetState(uid, StateAskPhone)
	return tghelpers.SendText(c, "📱 Please enter your mobile number:")
}

func (f *Flow) handleAskPhone(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)
	phone := strings.TrimSpace(c.Text())
	if phone == "" {
		return tghelpers.SendText(c, "📱 Please enter your mobile number:")
	}

	name := ""
	if v, ok := f.fsm.GetTemp(uid, tempName); ok {
		name, _ = v.(string)
	}

	if err := f.registration.Begin(ctx, uid, name, phone); err != nil {
		f.fsm.Clear(uid)
		_ = tghelpers.SendText(c, "❌ Could not send the verification code. Please try /start again.")
		return err
	}

	f.fsm.SetState(uid, StateAwaitOTP)
	return nil
}

func (f *Flow) handleAwaitOTP(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)
	code := strings.TrimSpace(c.Text())

	err := f.registration.SubmitOTP(ctx, uid, code)
	switch {
	case err == nil:
		f.fsm.SetState(uid, StateChooseSize)
		return tghelpers.SendMD(c, "✅ Verified! Choose image dimensions:", DimensionKeyboard())
	case errors.Is(err, services.ErrOtpMismatch):
		return tghelpers.SendText(c, "❌ Wrong OTP. Please try again.")
	case errors.Is(err, services.ErrOtpExpired):
		f.fsm.Clear(uid)
		return tghelpers.SendText(c, "⌛ The code expired. Start again with /start.")
	case errors.Is(err, services.ErrOtpAttemptsExceeded):
		f.fsm.Clear(uid)
		return tghelpers.SendText(c, "❌ Too many wrong attempts. Start again with /start.")
	default:
		return err
	}
}

// handleChooseSizeText re-prompts: dimensions are picked via the keyboard.
func (f *Flow) handleChooseSizeText(c tele.Context) error {
	return tghelpers.SendText(c, "Please pick the dimensions using the buttons above.")
}

// stateStrings adapts the FSM manager to the middleware's string view.
type stateStrings struct {
	m state.Manager
}

func (s stateStrings) GetState(userID int64) string {
	return string(s.m.GetState(userID))
}

// DimensionCallback gates the dim callback to the size-selection step.
func (f *Flow) DimensionCallback() tele.HandlerFunc {
	return middleware.State(stateStrings{f.fsm}, string(StateChooseSize))(f.dimensionChosen)
}

func (f *Flow) dimensionChosen(c tele.Context) error {
	uid := c.Sender().ID

	payload := callbacks.CallbackPayload(c)
	dim, ok := models.ParseDimension(payload)
	if !ok || !dim.Valid() {
		return tghelpers.SendText(c, "Invalid selection.")
	}

	f.fsm.SetTemp(uid, tempDimension, dim.String())
	f.fsm.SetState(uid, StateAwaitPrompt)
	return tghelpers.SendMD(c, fmt.Sprintf("Dimension set to *%s*.\n\nNow send me the text prompt (describe the image):", dim))
}

func (f *Flow) handleAwaitPrompt(c tele.Context) error {
	prompt := strings.TrimSpace(c.Text())
	if prompt == "" {
		return tghelpers.SendText(c, "Send a text prompt describing the image.")
	}
	return f.runGeneration(c, prompt, "🎨 Generating your image... this may take a few seconds. Please wait ⏳")
}

// ActionCallback gates the act callback to the after-image step.
func (f *Flow) ActionCallback() tele.HandlerFunc {
	return middleware.State(stateStrings{f.fsm}, string(StateAfterImage))(f.afterImageAction)
}

func (f *Flow) afterImageAction(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	switch callbacks.CallbackPayload(c) {
	case actionEdit:
		f.fsm.SetState(uid, StateEditPrompt)
		return tghelpers.SendText(c, "✏️ What would you like to edit in the image? Describe the changes:")

	case actionSave:
		image, okImage := f.fsm.GetTemp(uid, tempImage)
		genID, okID := f.fsm.GetTemp(uid, tempGenerationID)
		imageBytes, _ := image.([]byte)
		generationID, _ := genID.(string)
		if !okImage || !okID || len(imageBytes) == 0 || generationID == "" {
			return tghelpers.SendText(c, "No image available to save.")
		}
		if _, err := f.gallery.Save(ctx, uid, generationID, imageBytes); err != nil {
			_ = tghelpers.SendText(c, "❌ Could not save the image. Try again.")
			return err
		}
		f.fsm.Clear(uid)
		return tghelpers.SendText(c, "✅ Saved to gallery. Use /gallery to view it or /start to create another image.")

	case actionNoSave:
		f.fsm.Clear(uid)
		return tghelpers.SendText(c, "Okay, image not saved. Use /start to create another one.")

	case actionRegen:
		f.fsm.SetState(uid, StateRegenPrompt)
		return tghelpers.SendText(c, "🔁 What type of image do you want now? Send a new prompt:")

	default:
		return tghelpers.SendText(c, "Unknown action.")
	}
}

func (f *Flow) handleEditPrompt(c tele.Context) error {
	uid := c.Sender().ID
	instructions := strings.TrimSpace(c.Text())
	if instructions == "" {
		return tghelpers.SendText(c, "Describe the changes you want.")
	}

	lastPrompt := ""
	if v, ok := f.fsm.GetTemp(uid, tempLastPrompt); ok {
		lastPrompt, _ = v.(string)
	}
	if lastPrompt == "" {
		f.fsm.SetState(uid, StateAwaitPrompt)
		return tghelpers.SendText(c, "Original prompt missing. Please generate an image first.")
	}

	combined := fmt.Sprintf("%s. Edit: %s", lastPrompt, instructions)
	return f.runGeneration(c, combined, "🎨 Applying edits... please wait ⏳")
}

func (f *Flow) handleRegenPrompt(c tele.Context) error {
	prompt := strings.TrimSpace(c.Text())
	if prompt == "" {
		return tghelpers.SendText(c, "Send a text prompt describing the image.")
	}
	return f.runGeneration(c, prompt, "🎨 Generating new image... please wait ⏳")
}

// runGeneration performs a provider call with the stored dimension and moves
// the user to the after-image step. Provider failure returns the user to
// dimension selection; retry is manual.
func (f *Flow) runGeneration(c tele.Context, prompt, notice string) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	dimStr := ""
	if v, ok := f.fsm.GetTemp(uid, tempDimension); ok {
		dimStr, _ = v.(string)
	}
	dim, ok := models.ParseDimension(dimStr)
	if !ok {
		f.fsm.Clear(uid)
		return tghelpers.SendText(c, "⚠️ Dimension not set. Please /start and choose a dimension.")
	}

	_ = c.Notify(tele.UploadingPhoto)
	_ = tghelpers.SendText(c, notice)

	result, err := f.generation.Generate(ctx, uid, prompt, dim)
	if err != nil {
		var provErr *services.ProviderError
		switch {
		case errors.As(err, &provErr):
			f.fsm.SetState(uid, StateChooseSize)
			_ = tghelpers.SendText(c, "❌ Failed to generate image. Pick a size and try again, or try a different prompt.")
			return tghelpers.SendMD(c, "Choose image dimensions:", DimensionKeyboard())
		case errors.Is(err, services.ErrUnverified):
			f.fsm.Clear(uid)
			return tghelpers.SendText(c, "You are not registered yet. Please /start first.")
		case errors.Is(err, services.ErrInvalidDimensions):
			f.fsm.SetState(uid, StateChooseSize)
			return tghelpers.SendMD(c, "That size is not supported. Choose image dimensions:", DimensionKeyboard())
		default:
			return err
		}
	}

	f.fsm.SetTemp(uid, tempLastPrompt, prompt)
	f.fsm.SetTemp(uid, tempImage, result.Image)
	f.fsm.SetTemp(uid, tempGenerationID, result.RequestID)

	caption := fmt.Sprintf("✨ Here's your image for:\n_%s_", format.EscapeMD(prompt))
	if err := f.sendImage(c, result.Image, caption); err != nil {
		return tghelpers.SendText(c, "❌ Generated image but failed to send. Try again.")
	}

	f.fsm.SetState(uid, StateAfterImage)
	return tghelpers.SendText(c, "Choose next action:", &tele.SendOptions{ReplyMarkup: ActionKeyboard()})
}

// sendImage sends the generated bytes as a photo, falling back to a document
// when Telegram rejects the photo upload.
func (f *Flow) sendImage(c tele.Context, image []byte, caption string) error {
	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(image)),
		Caption: caption,
	}
	if err := c.Send(photo, &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err == nil {
		return nil
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(image)),
		FileName: "image.png",
		Caption:  caption,
	}
	return c.Send(doc, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
}
