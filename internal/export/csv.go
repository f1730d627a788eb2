package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/due/internal/store"
)

func ToCSV(finishes []store.Finish, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Timer ID", "Label", "Mode", "Duration (s)", "Duration", "Finished At"}); err != nil {
		return err
	}

	for _, fin := range finishes {
		dur := ""
		if fin.Seconds > 0 {
			dur = formatDuration(fin.Seconds)
		}

		row := []string{
			fmt.Sprintf("%d", fin.ID),
			fin.TimerID,
			fin.Label,
			fin.Mode,
			fmt.Sprintf("%d", fin.Seconds),
			dur,
			fin.FinishedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
