// internal/app/features/tasks/handler.go
package tasks

import (
	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	taskstore "github.com/hdngo/collabhub/internal/app/store/tasks"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the board feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	Tasks  *taskstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: apierrors.NewErrorLogger(logger),
		Tasks:  taskstore.New(db),
	}
}
