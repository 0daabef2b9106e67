package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ayrahq/ayra/internal/common"
)

func (a *App) setPrivatePassword(ctx context.Context) {
	if a.privacy.HasPassword(ctx) {
		fmt.Println("A private-space password is already set; use changepass")
		return
	}

	password, err := GetPassword("Enter new private-space password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.privacy.SetPassword(ctx, string(password)); err != nil {
		fmt.Println("error:", err)
		return
	}
	a.notifier.Success("Private-space password set")
}

func (a *App) unlockPrivate(ctx context.Context) {
	if !a.privacy.HasPassword(ctx) {
		fmt.Println("No private-space password set; use setpass")
		return
	}

	password, err := GetPassword("Enter private-space password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if !a.privacy.Unlock(ctx, string(password)) {
		a.notifier.Error("Wrong password")
		return
	}
	a.notifier.Success("Private space unlocked")
}

func (a *App) lockPrivate() {
	a.privacy.Lock()
	a.notifier.Success("Private space locked")
}

func (a *App) changePrivatePassword(ctx context.Context) {
	oldPassword, err := GetPassword("Enter current private-space password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := GetPassword("Enter new private-space password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(newPassword)

	if !a.privacy.ChangePassword(ctx, string(oldPassword), string(newPassword)) {
		a.notifier.Error("Wrong password")
		return
	}
	a.notifier.Success("Private-space password changed")
}
