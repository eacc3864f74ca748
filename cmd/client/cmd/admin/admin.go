package admin

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tabelkeeper/internal/app/client"
)

// AdminCmd - родительская команда административной сессии
var AdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Административная сессия киоска",
	Long: `Управление административным доступом.

Вход по PIN открывает сессию на ограниченное время и разрешает
изменения справочника сотрудников.`,
}

// LoginCmd открывает административную сессию
var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти как администратор",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		fmt.Print("PIN: ")
		pin, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения PIN: %w", err)
		}
		fmt.Println()

		err = app.Session().Login(string(pin))
		if errors.Is(err, client.ErrPINNotSet) {
			return fmt.Errorf("PIN не настроен, выполните: tabelkeeper init")
		}
		if errors.Is(err, client.ErrBadPIN) {
			return fmt.Errorf("неверный PIN")
		}
		if err != nil {
			return err
		}

		color.Green("✓ Административная сессия открыта")
		return nil
	},
}

// LogoutCmd закрывает административную сессию
var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Закрыть административную сессию",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		if err := app.Session().Logout(); err != nil {
			return err
		}

		fmt.Println("Административная сессия закрыта")
		return nil
	},
}

// SetPINCmd меняет PIN администратора
var SetPINCmd = &cobra.Command{
	Use:   "set-pin",
	Short: "Сменить PIN администратора",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		// Смена существующего PIN требует открытой сессии
		if app.Session().PINConfigured() && !app.Session().IsAdmin() {
			return fmt.Errorf("требуется вход администратора: tabelkeeper admin login")
		}

		fmt.Print("Новый PIN: ")
		pin, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения PIN: %w", err)
		}
		fmt.Println()

		fmt.Print("Повторите PIN: ")
		pinConfirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения PIN: %w", err)
		}
		fmt.Println()

		if string(pin) != string(pinConfirm) {
			return fmt.Errorf("введенные PIN не совпадают")
		}

		if err := app.Session().SetPIN(string(pin)); err != nil {
			return err
		}

		color.Green("✓ PIN обновлен")
		return nil
	},
}
