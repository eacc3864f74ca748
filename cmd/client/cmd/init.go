// cmd/client/cmd/init.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tabelkeeper/cmd/client/cmd/admin"
	attendanceCmd "tabelkeeper/cmd/client/cmd/attendance"
	employeeCmd "tabelkeeper/cmd/client/cmd/employee"
	syncCmd "tabelkeeper/cmd/client/cmd/sync"
	"tabelkeeper/internal/app/client"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Первоначальная настройка киоска",
	Long: `Команда init выполняет первоначальную настройку киоска:
	1. Создает локальную базу данных
	2. Устанавливает PIN администратора
	3. Проверяет соединение с сервером

PIN администратора защищает управление справочником сотрудников.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		fmt.Println("=== Настройка Tabelkeeper ===")
		fmt.Println()

		if app.Session().PINConfigured() {
			fmt.Println("PIN администратора уже установлен.")
		} else {
			fmt.Print("Введите PIN администратора: ")
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
			fmt.Println("✓ PIN администратора установлен")
		}

		// Проверяем соединение с сервером
		fmt.Println("Проверка соединения с сервером...")
		if err := app.CheckConnection(); err != nil {
			fmt.Printf("⚠️  Предупреждение: сервер недоступен: %v\n", err)
			fmt.Println("Киоск будет работать в офлайн-режиме, отметки уйдут на сервер позже.")
		} else {
			fmt.Println("✓ Соединение с сервером установлено")
		}

		fmt.Println()
		fmt.Println("✅ Настройка завершена!")
		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Войдите как администратор: tabelkeeper admin login")
		fmt.Println("2. Добавьте сотрудников: tabelkeeper employee add")
		fmt.Println("3. Отмечайте приходы: tabelkeeper attendance scan <номер>")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	// Команды учета посещений
	rootCmd.AddCommand(attendanceCmd.AttendanceCmd)
	attendanceCmd.AttendanceCmd.AddCommand(attendanceCmd.ScanCmd)
	attendanceCmd.AttendanceCmd.AddCommand(attendanceCmd.TodayCmd)

	// Команды справочника сотрудников
	rootCmd.AddCommand(employeeCmd.EmployeeCmd)
	employeeCmd.EmployeeCmd.AddCommand(employeeCmd.AddCmd)
	employeeCmd.EmployeeCmd.AddCommand(employeeCmd.ListCmd)
	employeeCmd.EmployeeCmd.AddCommand(employeeCmd.UpdateCmd)
	employeeCmd.EmployeeCmd.AddCommand(employeeCmd.DeleteCmd)

	// Административная сессия
	rootCmd.AddCommand(admin.AdminCmd)
	admin.AdminCmd.AddCommand(admin.LoginCmd)
	admin.AdminCmd.AddCommand(admin.LogoutCmd)
	admin.AdminCmd.AddCommand(admin.SetPINCmd)

	rootCmd.AddCommand(syncCmd.SyncCmd)
	rootCmd.AddCommand(statusCmd)
}
