package jobs

type JobType string

const (
	JobTrainModel     JobType = "train_model"
	JobExportChatsCSV JobType = "export_chats_csv"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobTrainModel, JobExportChatsCSV:
		return true
	default:
		return false
	}
}
