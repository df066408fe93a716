package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// formDialogs adapts the confirm/prompt capability to HTML forms. The
// browser runs the actual dialogs; the form carries their outcome.
type formDialogs struct {
	confirmed   bool
	replacement string
	answered    bool
}

func dialogsFromForm(c *fiber.Ctx) formDialogs {
	replacement, answered := c.FormValue("replacement"), true
	if replacement == "" && c.FormValue("answered") != "true" {
		answered = false
	}
	return formDialogs{
		confirmed:   c.FormValue("confirm") == "true",
		replacement: strings.TrimSpace(replacement),
		answered:    answered,
	}
}

func (d formDialogs) Confirm(message string) bool { return d.confirmed }

func (d formDialogs) PromptReplacement(current string) (string, bool) {
	return d.replacement, d.answered
}
