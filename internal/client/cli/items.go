package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ayrahq/ayra/internal/client/models"
)

const itemsCacheKey = "items"

func (a *App) list(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Sign in first")
		return
	}

	var items []models.Item
	if cached, ok := a.cache.Get(itemsCacheKey); ok {
		items = cached.([]models.Item)
	} else {
		fetched, err := a.client.ListItems(ctx)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		items = fetched
		a.cache.Set(itemsCacheKey, items)
	}

	if len(items) == 0 {
		fmt.Println("No items yet")
		return
	}
	for _, item := range items {
		line := fmt.Sprintf("%s  [%s]  %s", item.CreatedAt.Format("2006-01-02"), item.Type, item.Title)
		if item.URL != "" {
			line += "  " + item.URL
		}
		fmt.Println(line)
	}
}

func (a *App) categories(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Sign in first")
		return
	}
	cats, err := a.client.ListCategories(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, c := range cats {
		fmt.Println(c.Name)
	}
}

func (a *App) addNote(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Sign in first")
		return
	}

	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	content, err := GetMultiline(a.reader, "Enter note text", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_, err = a.client.CreateItem(ctx, models.NewItem{
		Title:   title,
		Type:    models.ItemTypeNote,
		Content: content,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	a.cache.Delete(itemsCacheKey)
	a.notifier.Success("Note added")
}

func (a *App) addLink(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Sign in first")
		return
	}

	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	url, err := GetSimpleText(a.reader, "Enter URL", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_, err = a.client.CreateItem(ctx, models.NewItem{
		Title: title,
		Type:  models.ItemTypeLink,
		URL:   url,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	a.cache.Delete(itemsCacheKey)
	a.notifier.Success("Link added")
}

func (a *App) status(ctx context.Context) {
	if u := a.session.CurrentUser(); u != nil {
		fmt.Println("Signed in as", u.Email)
	} else {
		fmt.Println("Signed out")
	}

	switch {
	case !a.privacy.HasPassword(ctx):
		fmt.Println("Private space: no password set")
	case a.privacy.Unlocked():
		fmt.Println("Private space: unlocked")
	default:
		fmt.Println("Private space: locked")
	}

	if err := a.client.Ping(ctx); err != nil {
		fmt.Println("Server: unreachable")
	} else {
		fmt.Println("Server: online")
	}
}
