package sync

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tabelkeeper/internal/app/client"
)

var (
	showStatus bool
	showLog    bool
	logLimit   int
)

// SyncCmd управляет синхронизацией с сервером
var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Отправляет накопленные отметки и сотрудников на сервер
и дозагружает недостающие данные с сервера.

Синхронизация идемпотентна: повторный запуск без изменений
ничего не отправляет.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())

		if showStatus {
			return printStatus(app)
		}
		if showLog {
			return printLog(app)
		}

		return runSync(cmd, app)
	},
}

func runSync(cmd *cobra.Command, app *client.App) error {
	fmt.Println("=== Синхронизация ===")

	pending, err := app.PendingCount()
	if err != nil {
		return fmt.Errorf("ошибка подсчета очереди: %w", err)
	}
	fmt.Printf("В очереди на отправку: %d\n", pending)

	fmt.Println("Проверка соединения с сервером...")
	if err := app.CheckConnection(); err != nil {
		return fmt.Errorf("сервер недоступен: %v", err)
	}

	result, err := app.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}
	if result == nil {
		fmt.Println("Синхронизация пропущена (уже выполняется или сервер недоступен)")
		return nil
	}

	fmt.Println()
	fmt.Println("✅ Синхронизация завершена!")
	fmt.Printf("Время выполнения: %v\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("Отправлено: %d (сотрудников %d, посещений %d)\n",
		result.Pushed(), result.PushedEmployees, result.PushedEntries)
	fmt.Printf("Дозагружено: %d (сотрудников %d, посещений %d)\n",
		result.Pulled(), result.PulledEmployees, result.PulledEntries)

	if len(result.Errors) > 0 {
		fmt.Printf("Ошибок при синхронизации: %d\n", len(result.Errors))
		for i, syncErr := range result.Errors {
			if i >= 3 {
				fmt.Printf("  ... и еще %d ошибок\n", len(result.Errors)-3)
				break
			}
			fmt.Printf("  • %s %s: %s\n", syncErr.Operation, syncErr.Key, syncErr.Error)
		}
		fmt.Println("Неотправленные записи уйдут при следующем проходе.")
	}

	return nil
}

func printStatus(app *client.App) error {
	fmt.Println("=== Статус синхронизации ===")

	pending, err := app.PendingCount()
	if err != nil {
		return fmt.Errorf("ошибка подсчета очереди: %w", err)
	}
	fmt.Printf("В очереди на отправку: %d\n", pending)

	lastSync := app.LastSyncTime()
	if lastSync.IsZero() {
		fmt.Println("Последняя синхронизация: еще не было")
	} else {
		fmt.Printf("Последняя синхронизация: %s\n", lastSync.Format("2006-01-02 15:04:05"))
	}

	fmt.Printf("Соединение с сервером: ")
	if err := app.CheckConnection(); err != nil {
		fmt.Printf("❌ %v\n", err)
	} else {
		fmt.Printf("✅ OK\n")
	}

	return nil
}

func printLog(app *client.App) error {
	logs, err := app.SyncLogs(logLimit)
	if err != nil {
		return fmt.Errorf("ошибка чтения журнала: %w", err)
	}

	if len(logs) == 0 {
		fmt.Println("Журнал синхронизаций пуст")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ВРЕМЯ\tСТАТУС\tОТПРАВЛЕНО\tДОЗАГРУЖЕНО\tОШИБКИ")

	for _, entry := range logs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			entry.StartedAt.Format("2006-01-02 15:04:05"),
			entry.Status,
			entry.PushedEmployees+entry.PushedEntries,
			entry.PulledEmployees+entry.PulledEntries,
			entry.Failed)
	}

	return w.Flush()
}

func init() {
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "показать статус синхронизации")
	SyncCmd.Flags().BoolVar(&showLog, "log", false, "показать журнал синхронизаций")
	SyncCmd.Flags().IntVar(&logLimit, "limit", 20, "сколько записей журнала показывать")
}
