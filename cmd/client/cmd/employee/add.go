package employee

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

var (
	addName        string
	addDepartment  string
	addDesignation string
)

// AddCmd регистрирует нового сотрудника
var AddCmd = &cobra.Command{
	Use:   "add <номер>",
	Short: "Добавить сотрудника",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		emp, err := app.AddEmployee(args[0], addName, addDepartment, addDesignation)
		if errors.Is(err, client.ErrAdminRequired) {
			return fmt.Errorf("требуется вход администратора: tabelkeeper admin login")
		}
		var dup *client.DuplicateError
		if errors.As(err, &dup) {
			return fmt.Errorf("сотрудник с номером %q уже существует", args[0])
		}
		if err != nil {
			return err
		}

		color.Green("✓ Сотрудник добавлен: %s (%s)", emp.Name, emp.EmpID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addName, "name", "n", "", "имя сотрудника (обязательно)")
	AddCmd.Flags().StringVarP(&addDepartment, "department", "d", "", "отдел")
	AddCmd.Flags().StringVar(&addDesignation, "designation", "", "должность")
	AddCmd.MarkFlagRequired("name")
}
