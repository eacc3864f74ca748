package employee

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

// ListCmd показывает справочник сотрудников
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список сотрудников",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		employees, err := app.ListEmployees()
		if err != nil {
			return fmt.Errorf("ошибка получения списка сотрудников: %w", err)
		}

		if len(employees) == 0 {
			fmt.Println("Справочник сотрудников пуст")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "НОМЕР\tИМЯ\tОТДЕЛ\tДОЛЖНОСТЬ\tСИНХР.")

		for _, emp := range employees {
			synced := "нет"
			if emp.Synced {
				synced = "да"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				emp.EmpID, emp.Name, emp.Department, emp.Designation, synced)
		}

		return w.Flush()
	},
}
