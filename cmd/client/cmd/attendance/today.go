package attendance

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

// TodayCmd показывает посещения за сегодня
var TodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Посещения за сегодня",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		entries, err := app.TodayEntries()
		if err != nil {
			return fmt.Errorf("ошибка получения посещений: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("Сегодня отметок еще не было")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "НОМЕР\tПРИХОД\tУХОД\tМИНУТЫ\tСИНХР.")

		for _, entry := range entries {
			logout := "-"
			minutes := "-"
			if entry.LogoutTime != nil {
				logout = entry.LogoutTime.Format("15:04")
			}
			if entry.WorkingMinutes != nil {
				minutes = fmt.Sprintf("%d", *entry.WorkingMinutes)
			}
			synced := "нет"
			if entry.Synced {
				synced = "да"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				entry.EmpID, entry.LoginTime.Format("15:04"), logout, minutes, synced)
		}

		return w.Flush()
	},
}
