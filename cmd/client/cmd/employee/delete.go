package employee

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

var deleteYes bool

// DeleteCmd удаляет сотрудника вместе с его посещениями
var DeleteCmd = &cobra.Command{
	Use:   "delete <номер>",
	Short: "Удалить сотрудника",
	Long: `Удаляет сотрудника из локального справочника.

Вместе с сотрудником каскадно удаляются все его локальные записи
посещений. На сервере уже синхронизированные данные остаются.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		if !deleteYes {
			return fmt.Errorf("удаление вместе с записями посещений: подтвердите флагом --yes")
		}

		err := app.DeleteEmployee(args[0])
		if errors.Is(err, client.ErrAdminRequired) {
			return fmt.Errorf("требуется вход администратора: tabelkeeper admin login")
		}
		if errors.Is(err, client.ErrEmployeeNotFound) {
			return fmt.Errorf("сотрудник с номером %q не найден", args[0])
		}
		if err != nil {
			return err
		}

		color.Green("✓ Сотрудник %s удален вместе с записями посещений", args[0])
		return nil
	},
}

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "подтвердить удаление")
}
