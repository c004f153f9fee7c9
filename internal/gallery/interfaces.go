package gallery

import (
	"context"

	"github.com/ytget/image-saver/internal/model"
)

// Gallery defines the interface for the gallery service.
type Gallery interface {
	SetUpdateCallback(func(*model.FetchTask))
	SetRecordsCallback(func([]*model.ImageRecord))
	Submit(url string) (*model.FetchTask, error)
	Load(ctx context.Context) (int, error)
	Reload(ctx context.Context) (int, error)
	Records() []*model.ImageRecord
	GetTask(id string) (*model.FetchTask, bool)
	GetAllTasks() []*model.FetchTask
	Wait()
}
