package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ayrahq/ayra/internal/common"
)

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		fmt.Println("Login unsuccessful:", err)
		return
	}
	fmt.Println("Login successful")
}

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.session.SignUp(ctx, email, string(password)); err != nil {
		fmt.Println("Registration unsuccessful:", err)
		return
	}
	if a.session.IsAuthenticated() {
		fmt.Println("Registration successful, you are signed in")
	} else {
		fmt.Println("Registration successful, check your inbox to confirm")
	}
}

func (a *App) logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("error:", err)
		return
	}
	a.privacy.Lock()
	fmt.Println("Logged out")
}
