package attendance

import (
	"github.com/spf13/cobra"
)

// AttendanceCmd - родительская команда учета посещений
var AttendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Учет приходов и уходов",
	Long: `Работа терминала учета рабочего времени.

Первое сканирование табельного номера за день открывает смену,
второе закрывает и считает отработанные минуты. Повторные
сканирования после закрытия смены ничего не меняют.`,
}
