// cmd/client/cmd/status.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Панель показателей за сегодня",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		stats, err := app.Stats()
		if err != nil {
			return fmt.Errorf("ошибка получения показателей: %w", err)
		}

		fmt.Println("=== Tabelkeeper: сегодня ===")
		fmt.Printf("Сотрудников в справочнике: %d\n", stats.TotalEmployees)
		fmt.Printf("Отметились сегодня:        %d\n", stats.PresentToday)
		fmt.Printf("Открытых смен:             %d\n", stats.OpenShifts)
		fmt.Printf("Закрытых смен:             %d\n", stats.ClosedToday)
		fmt.Printf("Отработано минут:          %d\n", stats.TotalMinutesToday)

		if stats.PendingSync > 0 {
			color.Yellow("Ожидают отправки:          %d", stats.PendingSync)
		} else {
			color.Green("Все данные синхронизированы")
		}

		fmt.Printf("Сервер: ")
		if err := app.CheckConnection(); err != nil {
			color.Red("офлайн (%v)", err)
		} else {
			color.Green("онлайн")
		}

		return nil
	},
}
