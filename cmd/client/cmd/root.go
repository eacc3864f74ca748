// cmd/client/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"tabelkeeper/internal/app/client"
	"tabelkeeper/internal/app/client/config"
	"tabelkeeper/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "tabelkeeper",
	Short: "Tabelkeeper - киоск учета рабочего времени",
	Long: `Tabelkeeper — терминал учета прихода и ухода сотрудников.

Все отметки сохраняются в локальной базе и работают без сети.
При появлении соединения накопленные данные автоматически уходят
на сервер, а с сервера дозагружается то, чего нет локально.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	// Загружаем конфигурацию
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	// Настраиваем логгер
	log = logger.New(cfg.Env)

	// Создаем приложение
	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	// Пробрасываем приложение в подкоманды через контекст
	cmd.SetContext(client.WithContext(cmd.Context(), app))

	return nil
}

func init() {
	cobra.OnInitialize()

	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера Tabelkeeper")
}
