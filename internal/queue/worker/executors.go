package worker

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arogyamitra/healthchat/internal/dataset"
	"github.com/arogyamitra/healthchat/internal/domain/chat"
	"github.com/arogyamitra/healthchat/internal/domain/job"
	"github.com/arogyamitra/healthchat/internal/jobs"
	"github.com/arogyamitra/healthchat/internal/ml"
)

type ChatLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]chat.Chat, error)
}

// TrainModelExecutor materializes the training pairs for the python
// trainer and runs it to completion.
func TrainModelExecutor(runner *ml.Runner, data *dataset.Dataset, scriptDir string, log *slog.Logger) ExecFunc {
	return func(ctx context.Context, j job.Job) error {
		payload, err := jobs.DecodePayload(j)

		if err != nil {
			return err
		}

		p := payload.(jobs.TrainModelPayload)

		pairs := data.TrainingPairs()

		raw, err := json.Marshal(pairs)

		if err != nil {
			return fmt.Errorf("marshal training pairs: %w", err)
		}

		trainingPath := filepath.Join(scriptDir, "training_data.json")

		if err := os.WriteFile(trainingPath, raw, 0o644); err != nil {
			return fmt.Errorf("write training data: %w", err)
		}

		log.Info("training model", "requested_by", p.RequestedBy, "examples", len(pairs))

		out, err := runner.Train(ctx)

		if err != nil {
			return err
		}

		log.Info("training complete", "requested_by", p.RequestedBy, "output", out)
		return nil
	}
}

// ExportChatsExecutor writes a user's chat history to a CSV file under
// the export directory.
func ExportChatsExecutor(chats ChatLister, exportDir string, log *slog.Logger) ExecFunc {
	return func(ctx context.Context, j job.Job) error {
		payload, err := jobs.DecodePayload(j)

		if err != nil {
			return err
		}

		p := payload.(jobs.ExportChatsCSVPayload)

		// export is unbounded on purpose: the history endpoint caps at 50,
		// the export should not
		records, err := chats.ListByUser(ctx, p.UserID, 100000)

		if err != nil {
			return fmt.Errorf("list chats: %w", err)
		}

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}

		name := fmt.Sprintf("chats_%s_%s.csv", p.UserID, time.Now().UTC().Format("20060102T150405"))
		path := filepath.Join(exportDir, name)

		f, err := os.Create(path)

		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}

		defer f.Close()

		w := csv.NewWriter(f)

		if err := w.Write([]string{"id", "message", "response", "translated_response", "timestamp"}); err != nil {
			return err
		}

		for _, c := range records {
			row := []string{c.ID, c.Message, c.Response, c.TranslatedResponse, c.CreatedAt.UTC().Format(time.RFC3339)}

			if err := w.Write(row); err != nil {
				return err
			}
		}

		w.Flush()

		if err := w.Error(); err != nil {
			return err
		}

		log.Info("chat export written", "user_id", p.UserID, "path", path, "rows", len(records))
		return nil
	}
}
