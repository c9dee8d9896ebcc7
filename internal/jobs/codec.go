package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/arogyamitra/healthchat/internal/domain/job"
)

func EncodePayload(t JobType, payload any) ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}

	switch t {
	case JobTrainModel:
		_, ok := payload.(TrainModelPayload)

		if !ok {
			_, ok2 := payload.(*TrainModelPayload)

			if !ok2 {
				return nil, ErrPayloadTypeMismatch
			}
		}

	case JobExportChatsCSV:
		_, ok := payload.(ExportChatsCSVPayload)

		if !ok {
			_, ok2 := payload.(*ExportChatsCSVPayload)

			if !ok2 {
				return nil, ErrPayloadTypeMismatch
			}
		}
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return b, nil
}

// DecodePayload unmarshals job.Payload into the correct typed payload struct.
func DecodePayload(j job.Job) (any, error) {
	t := JobType(j.Type)

	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}
	if len(j.Payload) == 0 {
		return nil, ErrInvalidJobPayload
	}

	switch t {
	case JobTrainModel:
		var p TrainModelPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		return p, nil

	case JobExportChatsCSV:
		var p ExportChatsCSVPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		return p, nil

	default:
		return nil, ErrInvalidJobType
	}
}
