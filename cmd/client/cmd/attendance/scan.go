package attendance

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

// ScanCmd обрабатывает сканирование табельного номера
var ScanCmd = &cobra.Command{
	Use:   "scan <номер>",
	Short: "Отметить приход или уход сотрудника",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		result, err := app.Record(args[0])
		if errors.Is(err, client.ErrShiftClosed) {
			color.Yellow("⚠ %s: смена за сегодня уже закрыта", result.Employee.Name)
			return nil
		}
		if errors.Is(err, client.ErrEmployeeNotFound) {
			color.Red("✗ Сотрудник с номером %q не найден", args[0])
			return err
		}
		if err != nil {
			return err
		}

		switch result.Action {
		case client.ActionLogin:
			color.Green("✓ Добро пожаловать, %s! Приход в %s",
				result.Employee.Name, result.Entry.LoginTime.Format("15:04"))
		case client.ActionLogout:
			color.Cyan("✓ До свидания, %s! Уход в %s, отработано %d мин",
				result.Employee.Name,
				result.Entry.LogoutTime.Format("15:04"),
				*result.Entry.WorkingMinutes)
		}

		return nil
	},
}
