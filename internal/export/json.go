package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/due/internal/store"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Finishes   []jsonFinish `json:"finishes"`
}

type jsonFinish struct {
	ID          int64  `json:"id"`
	TimerID     string `json:"timer_id"`
	Label       string `json:"label"`
	Mode        string `json:"mode"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration,omitempty"`
	FinishedAt  string `json:"finished_at"`
}

func ToJSON(finishes []store.Finish, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(finishes),
	}

	for _, fin := range finishes {
		dur := ""
		if fin.Seconds > 0 {
			dur = formatDuration(fin.Seconds)
		}

		export.Finishes = append(export.Finishes, jsonFinish{
			ID:          fin.ID,
			TimerID:     fin.TimerID,
			Label:       fin.Label,
			Mode:        fin.Mode,
			DurationSec: fin.Seconds,
			Duration:    dur,
			FinishedAt:  fin.FinishedAt.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
