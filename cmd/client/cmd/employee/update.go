package employee

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

var (
	updateName        string
	updateDepartment  string
	updateDesignation string
)

// UpdateCmd изменяет данные сотрудника
var UpdateCmd = &cobra.Command{
	Use:   "update <номер>",
	Short: "Изменить данные сотрудника",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		emp, err := app.UpdateEmployee(args[0], updateName, updateDepartment, updateDesignation)
		if errors.Is(err, client.ErrAdminRequired) {
			return fmt.Errorf("требуется вход администратора: tabelkeeper admin login")
		}
		if errors.Is(err, client.ErrEmployeeNotFound) {
			return fmt.Errorf("сотрудник с номером %q не найден", args[0])
		}
		if err != nil {
			return err
		}

		color.Green("✓ Сотрудник обновлен: %s (%s)", emp.Name, emp.EmpID)
		return nil
	},
}

func init() {
	UpdateCmd.Flags().StringVarP(&updateName, "name", "n", "", "новое имя")
	UpdateCmd.Flags().StringVarP(&updateDepartment, "department", "d", "", "новый отдел")
	UpdateCmd.Flags().StringVar(&updateDesignation, "designation", "", "новая должность")
}
