package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionLearned  = "learned"
	actionMistakes = "mistakes"
	actionProgress = "progress"
	actionClear    = "clear"
)

// Clear sub-actions.
const (
	clearPrompt  = "prompt"
	clearConfirm = "confirm"
	clearCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
	}
}

func buildLearnedCallback(wordID int64) string {
	return callbackData{
		Action: actionLearned,
		Params: []string{strconv.FormatInt(wordID, 10)},
	}.encode()
}

func buildMistakesCallback() string {
	return callbackData{Action: actionMistakes}.encode()
}

func buildProgressCallback() string {
	return callbackData{Action: actionProgress}.encode()
}

func buildClearCallback(sub string) string {
	return callbackData{
		Action: actionClear,
		Params: []string{sub},
	}.encode()
}

// parseWordID extracts the word id of a "learned:<id>" callback.
func (cd callbackData) parseWordID() (int64, bool) {
	if len(cd.Params) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(cd.Params[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
