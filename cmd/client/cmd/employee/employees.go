package employee

import (
	"github.com/spf13/cobra"
)

// EmployeeCmd - родительская команда справочника сотрудников
var EmployeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Управление справочником сотрудников",
	Long: `Добавление, изменение и удаление сотрудников.

Изменения справочника требуют административной сессии:
tabelkeeper admin login.`,
}
