// cmd/client/cmd/run.go
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Запустить киоск в интерактивном режиме",
	Long: `Интерактивный режим терминала: табельные номера читаются
со стандартного ввода (сканер штрих-кодов работает как клавиатура).

В фоне работают монитор соединения и автоматическая синхронизация:
накопленные отметки уходят на сервер сразу после появления связи.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Фоновая синхронизация и монитор соединения
		app.StartBackground(ctx)

		fmt.Println("=== Tabelkeeper: киоск запущен ===")
		fmt.Println("Сканируйте табельный номер (пустая строка - выход)")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}

			empID := strings.TrimSpace(scanner.Text())
			if empID == "" {
				break
			}

			result, err := app.Record(empID)
			switch {
			case errors.Is(err, client.ErrShiftClosed):
				color.Yellow("⚠ %s: смена за сегодня уже закрыта", result.Employee.Name)
			case errors.Is(err, client.ErrEmployeeNotFound):
				color.Red("✗ Номер %q не найден", empID)
			case err != nil:
				color.Red("✗ Ошибка: %v", err)
			case result.Action == client.ActionLogin:
				color.Green("✓ %s: приход в %s", result.Employee.Name,
					result.Entry.LoginTime.Format("15:04"))
			case result.Action == client.ActionLogout:
				color.Cyan("✓ %s: уход в %s, отработано %d мин", result.Employee.Name,
					result.Entry.LogoutTime.Format("15:04"), *result.Entry.WorkingMinutes)
			}
		}

		fmt.Println("Киоск остановлен")
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
