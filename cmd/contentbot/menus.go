package main

import (
	"strings"

	contentbot "github.com/goliatone/go-content-bot"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

const mainMenu = "main"

// buildMenus registers one menu per content type under the main menu. Scoped
// types get one menu per scope.
func buildMenus(policies *contentbot.Policies, scopes []string) []contentbot.Menu {
	root := contentbot.Menu{Code: mainMenu, Text: "Главное меню"}
	var menus []contentbot.Menu
	for _, code := range policies.Codes() {
		policy, ok := policies.Lookup(code)
		if !ok {
			continue
		}
		if !policy.Scoped {
			root.Options = append(root.Options, interfaces.Option{Label: policy.Label, Value: code})
			menus = append(menus, contentbot.Menu{Code: code, Text: policy.Label, ContentType: code, Parent: mainMenu})
			continue
		}
		for _, scope := range scopes {
			scope = strings.TrimSpace(scope)
			if scope == "" {
				continue
			}
			menuCode := scopedMenuCode(code, scope)
			root.Options = append(root.Options, interfaces.Option{Label: policy.Label + " · " + scope, Value: menuCode})
			menus = append(menus, contentbot.Menu{
				Code:        menuCode,
				Text:        policy.Label + " · " + scope,
				ContentType: code,
				Scope:       scope,
				Parent:      mainMenu,
			})
		}
	}
	return append([]contentbot.Menu{root}, menus...)
}

func scopedMenuCode(contentType, scope string) string {
	return contentType + "." + scope
}
