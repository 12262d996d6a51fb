package bot

import "imagekingbot/core/telegram/state"

// Conversation states. Dimension and after-image steps advance via callbacks;
// the rest consume free text through the FSM manager.
const (
	StateAskName     state.State = "ask_name"
	StateAskPhone    state.State = "ask_phone"
	StateAwaitOTP    state.State = "await_otp"
	StateChooseSize  state.State = "choose_size"
	StateAwaitPrompt state.State = "await_prompt"
	StateAfterImage  state.State = "after_image"
	StateEditPrompt  state.State = "edit_prompt"
	StateRegenPrompt state.State = "regen_prompt"
)

// Session temp-data keys.
const (
	tempName         = "reg_name"
	tempDimension    = "dimension"
	tempLastPrompt   = "last_prompt"
	tempImage        = "pending_image"
	tempGenerationID = "generation_id"
)

// Callback keys.
const (
	cbDimension = "dim"
	cbAction    = "act"
)

// After-image action payloads.
const (
	actionEdit   = "edit"
	actionSave   = "save"
	actionNoSave = "nosave"
	actionRegen  = "regen"
)
